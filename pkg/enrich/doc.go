// Package enrich adds web search context to chat requests.
//
// An Enricher extracts queries from the user messages of a request, searches
// each one and inserts the results as a single system message directly after
// the first message:
//
//	enricher := enrich.NewEnricher(extract.New(3), searchClient, enrich.Options{})
//	summary := enricher.Enrich(ctx, req)
//
// Search failures never abort enrichment; they surface as sentinel results
// inside the inserted context.
package enrich
