package main

import "github.com/frahmantamala/org-admin/cmd"

func main() {
	cmd.Execute()
}
