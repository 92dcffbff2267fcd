package repository

// Repository represents a version controlled or build tool managed source tree
type Repository struct {
	Kind   string
	Root   string
	Origin string
	Info   *Project
}

// Project represents information about a detected Java project
type Project struct {
	RootPath     string   // Absolute path to the project root directory
	Type         string   // Type of project (maven, gradle, git)
	Name         string   // Name of the project (extracted from build files)
	RelativePath string   // Path from project root to the specified file
	SourceRoots  []string // Absolute source root folders, holding package directories
	Pom          *Pom     // Maven project descriptor
}
