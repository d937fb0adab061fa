package main

import "os"

func main() {
	_ = os.Getenv("DATABASE_URL")
	_ = os.Getenv("GO_ONLY_VAR")
}
