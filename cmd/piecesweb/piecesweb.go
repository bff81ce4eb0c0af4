// Binary piecesweb serves places and their pieces over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/paths"
	"badc0de.net/pkg/go-pieces/splitter"
	"badc0de.net/pkg/go-pieces/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for piecesweb")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server (/debug/requests, /debug/events) will listen")
	hasBackground  = flag.Bool("has_background", false, "whether label files in the data directory still contain a background record")
	listOnce       = flag.Bool("list_once", true, "list places once at startup instead of on every request")

	dataDir string
)

func main() {
	paths.SetupDirFlag("packed", "data_dir", &dataDir)
	flagutil.Parse()

	if dataDir == "" {
		glog.Exitf("no data directory; pass -data_dir")
	}
	src, err := datasource.NewDir(dataDir)
	if err != nil {
		glog.Exitf("opening data directory: %v", err)
	}

	var s *splitter.Splitter
	if *listOnce {
		s, err = splitter.FromSource(src, splitter.WithBackground(*hasBackground))
		if err != nil {
			glog.Exitf("listing places in %s: %v", src.Path(), err)
		}
	} else {
		s = splitter.New(src, splitter.WithBackground(*hasBackground))
	}

	if *debugWebServer != "" {
		go func() {
			// trace registers its handlers on http.DefaultServeMux.
			trace.AuthRequest = func(*http.Request) (any, sensitive bool) { return true, true }
			glog.Infof("debug server listening on %s", *debugWebServer)
			glog.Error(http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	r := mux.NewRouter()
	web.NewHandler(s).RegisterRoutes(r)

	h := handlers.CompressHandler(handlers.CombinedLoggingHandler(os.Stderr, r))
	glog.Infof("serving %s on %s", src.Path(), *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, h))
}
