// Package propquery provides a Go client for compiling property filters into
// search-backend query DSL, backed by a property catalog stored in Valkey.
//
// A property is mapped to its backend field through the catalog
// (Height registered as id 0, type wpg becomes P:0.wpgField) or, when
// enabled, through the P:<name>.<suffix> naming convention.
//
// # Catalog
//
//	client, _ := propquery.New(ctx, propquery.WithValkey("localhost:6379", ""))
//	_, _ = client.Properties().Register(ctx, "Height", 0, "wpg")
//
// # Compiling filters
//
//	q, err := client.Query().
//	    Must(propquery.Range("Height").GTE("6 ft").Boost(2)).
//	    Should(propquery.Value("Color", "red")).
//	    MustNot(propquery.Exists("Deleted")).
//	    Do(ctx)
//	// q.JSON: {"bool":{"must":[{"bool":{"must":[{"range":{"P:0.wpgField":{"boost":2,"gte":"6 ft"}}}]}}], ...}}
package propquery
