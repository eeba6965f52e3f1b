// Package statsview runs a local HTTP server offering runtime statistics of
// the interpreter process.
//
// After launch, graphical statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// and the standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Address is the address that the statistics server listens on.
const Address = "localhost:12600"

const path = "/debug/statsview"

// URL returns the address of the statistics page.
func URL() string {
	return "http://" + Address + path
}

// Launch starts the statistics server in a new goroutine.
func Launch(logger *log.Logger) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server started", log.String("url", URL()))
}
