package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mcdev12/reactionduel/go/internal/gateway"
)

func setupServer(port int, svc *gateway.Service) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      svc.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
