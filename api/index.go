package handler

import (
	"net/http"
	"sync"

	"wsb/config"
	"wsb/di"
	"wsb/shared/logger"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler is the serverless entry point. The route tree is built on the
// first invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()
		logger.Configure(config.Get(), "serverless")

		handler = di.InitializeService().Handler()
	})

	r.RequestURI = r.URL.String()

	handler.ServeHTTP(w, r)
}
