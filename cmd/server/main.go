package main

import "teamstats/internal/app/server"

func main() {
	server.Run()
}
