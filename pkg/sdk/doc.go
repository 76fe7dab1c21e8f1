// Package echo provides an embedded Go client for the echo draft review
// pipeline: ingest a reference corpus, retrieve grounding passages, and run
// the multi-persona evaluation without an HTTP server in between.
//
//	client, _ := echo.New(
//	    echo.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	    echo.WithModels("gpt-4o-mini", "gpt-4o"),
//	    echo.WithStoreDir("./store"),
//	)
//	_, _ = client.Seed(ctx)
//	report, _ := client.Analyze(ctx, echo.Request{Draft: draft})
//
// The client wires the same use case services the server runs, over a local
// passage store. It holds no network resources beyond the OpenAI-compatible
// API clients.
package echo
