// Package services implements the business logic behind the poolserve listener.
//
// # Pages
//
// Pages turns one raw connection into one response. It reads the request head
// (every line up to the first blank line or EOF), looks only at the first line
// and answers with one of two static files from the statics folder:
//
//	┌──────────────────┬───────────────┬──────────────────────────┐
//	│ Request line     │ File          │ Status line              │
//	├──────────────────┼───────────────┼──────────────────────────┤
//	│ GET / HTTP/1.1   │ index.html    │ HTTP/1.1 200 OK          │
//	│ anything else    │ 404.html      │ HTTP/1.1 404 NOT FOUND   │
//	│ (empty request)  │ 404.html      │ HTTP/1.1 404 NOT FOUND   │
//	└──────────────────┴───────────────┴──────────────────────────┘
//
// Lines may be of any length. Only the first MaxLineLength bytes of a line are
// kept, so an over-long request line is answered with 404.html.
//
// The only header written is Content-Length. Files are read on every request,
// so editing them takes effect without a restart.
//
// Any read, filesystem or write failure is returned to the caller. The listener
// treats it as the end of that connection's job and nothing else.
//
// Usage:
//
//	pages := services.NewPagesService(cfg.Server.StaticsFolder)
//	if err := pages.Serve(conn); err != nil {
//	    zap.S().Named("listener").Errorw("failed to serve connection", "error", err)
//	}
package services
