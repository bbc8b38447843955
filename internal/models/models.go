// package models defines the data model for the labeling workspace
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Image is an image file inside the workspace.
type Image struct {
	Path      string `json:"path"`                // Relative slash-separated path, unique within the workspace
	Name      string `json:"name"`                // Base file name
	Thumbnail string `json:"thumbnail,omitempty"` // URL path of the cached thumbnail
}

// Label is a folder images can be assigned to.
type Label struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumb is one segment of a folder path.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// TreeNode is a folder with its nested subfolders.
type TreeNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Children []TreeNode `json:"children"`
	IsRoot   bool       `json:"isRoot,omitempty"`
}

// Content is the listing of a single folder.
type Content struct {
	Path        string       `json:"path"`
	Images      []Image      `json:"images"`
	Labels      []Label      `json:"labels"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
}

// AssignResult reports a bulk assign. Errors holds one human readable message per failed file.
type AssignResult struct {
	BatchID string   `json:"batchId"`
	Moved   int      `json:"moved"`
	Errors  []string `json:"errors"`
}

// Failed reports whether any file could not be moved.
func (r AssignResult) Failed() bool { return len(r.Errors) > 0 }

// Summary renders the result the way it is shown to the user.
func (r AssignResult) Summary() string {
	msg := fmt.Sprintf("Moved %d image(s).", r.Moved)
	if r.Failed() {
		msg += "\nErrors: "
		for i, e := range r.Errors {
			if i > 0 {
				msg += ", "
			}
			msg += e
		}
	}
	return msg
}
