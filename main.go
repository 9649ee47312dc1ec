package main

import "github.com/staffsync/staffsync-backend/cmd"

func main() {
	cmd.Execute()
}
