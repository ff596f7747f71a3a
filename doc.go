// Package anonymizer releases cluster-level and count-level aggregates over a
// personal-records dataset under a k-anonymity guarantee. Raw records are
// never exposed.
//
// # Pipeline
//
// A fit cycle loads the raw dataset, builds a feature matrix excluding
// sensitive columns, partitions it with k-means, aggregates each cluster and
// installs the result as an immutable snapshot:
//
//	src := dataset.NewLocalSource("./data/people.csv")
//	anon := anonymizer.New(src,
//	    anonymizer.WithKAnonymity(10),
//	    anonymizer.WithMaxResults(4000),
//	)
//	res, err := anon.Fit(ctx, 0) // 0 = adaptive cluster count
//
// # Queries
//
// Every count-producing query routes its raw count through the privacy gate
// before anything reaches the caller:
//
//	stats, _ := anon.NameStats(ctx, "Ana")
//	stats, _ := anon.Stats(ctx, map[string]string{"city": "Porto Alegre", "age": "34"})
//	infos, _ := anon.Clusters(ctx)     // only clusters of size >= K
//	detail, _ := anon.Cluster(ctx, 3)  // forbidden when the cluster is below K
//
// Queries are lock-free reads against the currently installed snapshot and may
// run concurrently with an in-progress fit; they observe either the complete
// previous snapshot or the complete new one, never a partial build.
//
// No trained state persists across restarts; a fresh fit is required after
// every process start.
package anonymizer
