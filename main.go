package main

import "github.com/Alijeyrad/clinicdesk_backend/cmd"

func main() {
	cmd.Execute()
}
