package main

import (
	"log"
	"telemetry-server/confs"
	"telemetry-server/db"
	"telemetry-server/server"
)

func main() {
	if err := confs.LoadConfig(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	server.NewServer(database).Start()
}
