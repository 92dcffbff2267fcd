package repository

import (
	"encoding/xml"
	"strings"
)

// Pom represents the key information from a Maven POM file
type Pom struct {
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Version    string   `xml:"version"`
	Name       string   `xml:"name"`
	Modules    []string `xml:"modules>module"`
}

// parsePom decodes a POM, it returns nil for empty or malformed content
func parsePom(data []byte) *Pom {
	if len(data) == 0 {
		return nil
	}
	pom := &Pom{}
	if err := xml.Unmarshal(data, pom); err != nil {
		return nil
	}
	pom.GroupID = strings.TrimSpace(pom.GroupID)
	pom.ArtifactID = strings.TrimSpace(pom.ArtifactID)
	pom.Version = strings.TrimSpace(pom.Version)
	pom.Name = strings.TrimSpace(pom.Name)
	return pom
}
