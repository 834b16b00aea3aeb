package confs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadConfig reads a .env file into the environment when one exists. A
// missing file is fine; anything else is logged but not fatal.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}
	return nil
}

// ListenAddr returns the address the HTTP server binds to.
func ListenAddr() string {
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		return addr
	}
	return "0.0.0.0:3536"
}
