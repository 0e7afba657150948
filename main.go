package main

import "furigana/cmd"

func main() {
	cmd.Execute()
}
