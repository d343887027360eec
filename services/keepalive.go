package services

import (
	"log"
	"net/http"
	"os"
	"time"
)

// StartKeepAlive pings the server's own health endpoint every 5 minutes so
// free-tier hosts don't idle the process out. It never touches request state.
func StartKeepAlive() {
	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		log.Println("keepalive: SERVER_URL not set, self-ping disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			res, err := http.Get(serverURL + "/api/health")
			if err != nil {
				log.Printf("keepalive: ping failed: %v", err)
				continue
			}
			res.Body.Close()
		}
	}()
}
