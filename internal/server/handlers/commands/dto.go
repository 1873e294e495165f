package commands

// CommandsResponse lists the commands a session can run.
type CommandsResponse struct {
	Commands []string `json:"commands"`
}
