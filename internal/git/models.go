package git

// Repository describes a working tree the server may run commands in.
type Repository struct {
	Path   string // Absolute path that was opened
	Head   string // Commit hash HEAD points to, empty for an unborn branch
	Branch string // Short name of the checked-out branch, "HEAD" when detached
}
