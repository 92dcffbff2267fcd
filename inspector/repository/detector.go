package repository

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

var gradleNameRegex = regexp.MustCompile(`(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`)

// Detector identifies Java project root folders and their source roots
type Detector struct {
	fs afs.Service
	// Project root marker files/directories, in priority order
	markers []string
	// Conventional source roots relative to the project root
	layouts []string
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		fs: afs.New(),
		markers: []string{
			"pom.xml",             // Maven projects
			"build.gradle",        // Gradle projects
			"build.gradle.kts",    // Gradle Kotlin DSL projects
			"settings.gradle",     // Gradle multi projects
			"settings.gradle.kts", // Gradle Kotlin DSL multi projects
			".git",                // Generic VCS marker
		},
		layouts: []string{
			filepath.Join("src", "main", "java"),
			filepath.Join("src", "java"),
			"src",
		},
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(filePath string, baseURL ...string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	// If it's a file, start from its parent directory
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	info := &Project{
		Type:     "unknown",
		RootPath: startDir,
	}
	if rootPath == "" && len(baseURL) > 0 && baseURL[0] != "" {
		info.RootPath = baseURL[0]
	} else if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	if projectType == "maven" {
		info.Pom = parsePom(d.download(filepath.Join(info.RootPath, "pom.xml")))
	}
	info.Name = d.extractProjectName(info, projectType)
	info.SourceRoots = d.sourceRoots(info.RootPath)
	if info.Pom != nil {
		for _, module := range info.Pom.Modules {
			moduleRoots := d.sourceRoots(filepath.Join(info.RootPath, filepath.FromSlash(strings.TrimSpace(module))))
			info.SourceRoots = append(info.SourceRoots, moduleRoots...)
		}
	}
	return info, nil
}

// DetectRepository identifies the repository containing the given file path
func (d *Detector) DetectRepository(filePath string) (*Repository, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	if gitRoot := d.findGitRoot(startDir); gitRoot != "" {
		repo := &Repository{
			Kind:   "git",
			Root:   gitRoot,
			Origin: d.extractGitOrigin(gitRoot),
		}
		if info, err := d.DetectProject(filePath); err == nil {
			repo.Info = info
		}
		return repo, nil
	}

	info, err := d.DetectProject(filePath)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Kind: info.Type,
		Root: info.RootPath,
		Info: info,
	}, nil
}

// sourceRoots returns the first conventional source root present in rootPath, or rootPath itself
func (d *Detector) sourceRoots(rootPath string) []string {
	for _, layout := range d.layouts {
		candidate := filepath.Join(rootPath, layout)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return []string{candidate}
		}
	}
	return []string{rootPath}
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// findGitRoot finds the root of the git repository containing the given directory
func (d *Detector) findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || parent == homeDir {
			return ""
		}
		dir = parent
	}
}

// extractGitOrigin extracts the origin URL from git config
func (d *Detector) extractGitOrigin(gitRoot string) string {
	content := d.download(filepath.Join(gitRoot, ".git", "config"))
	if len(content) == 0 {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, `[remote "origin"]`) {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}

// extractProjectName attempts to extract a project name from build files
func (d *Detector) extractProjectName(info *Project, projectType string) string {
	rootPath := info.RootPath
	switch projectType {
	case "maven":
		if info.Pom != nil && info.Pom.ArtifactID != "" {
			return info.Pom.ArtifactID
		}
	case "gradle":
		for _, candidate := range []string{"settings.gradle", "settings.gradle.kts", "build.gradle", "build.gradle.kts"} {
			if name := extractGradleProjectName(d.download(filepath.Join(rootPath, candidate))); name != "" {
				return name
			}
		}
	case "git":
		if name := extractGitProjectName(d.extractGitOrigin(rootPath)); name != "" {
			return name
		}
	}
	return filepath.Base(rootPath)
}

func (d *Detector) download(location string) []byte {
	content, err := d.fs.DownloadWithURL(context.Background(), location)
	if err != nil {
		return nil
	}
	return content
}

func extractGradleProjectName(script []byte) string {
	matches := gradleNameRegex.FindSubmatch(script)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

func extractGitProjectName(origin string) string {
	origin = strings.TrimSuffix(origin, ".git")
	if origin == "" {
		return ""
	}
	parts := strings.Split(origin, "/")
	return parts[len(parts)-1]
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "pom.xml":
		return "maven"
	case "build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts":
		return "gradle"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
