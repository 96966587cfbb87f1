package enrich

import (
	"strings"

	"mercator-hq/lookout/pkg/proxy/types"
	"mercator-hq/lookout/pkg/search"
)

// ContextHeader prefixes the inserted system message.
const ContextHeader = "Web context:\n"

// ContextIndex is the position the context message is inserted at.
const ContextIndex = 1

// BuildContext formats results as one system message. It reports false when
// there are no results.
func BuildContext(results []search.Result) (types.Message, bool) {
	if len(results) == 0 {
		return types.Message{}, false
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = r.String()
	}

	return types.Message{
		Role:    types.RoleSystem,
		Content: ContextHeader + strings.Join(blocks, "\n\n"),
	}, true
}
