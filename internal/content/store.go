package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

// ErrContentNotFound indicates the course's content document is missing.
var ErrContentNotFound = errors.New("course content not found")

// ErrContentInvalid indicates the stored or imported document is not a valid
// content tree.
var ErrContentInvalid = errors.New("course content invalid")

// contentSchema is the structural contract for a course content tree. It is
// deliberately permissive about task payloads: grading degrades softly on
// malformed definitions, so the schema only pins down the tree shape.
const contentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"lectures": {
				"type": "object",
				"additionalProperties": {
					"type": "object",
					"properties": {
						"tasks": {
							"type": "object",
							"additionalProperties": {"type": "object"}
						}
					}
				}
			}
		}
	}
}`

// FileStore keeps course content as JSON documents under a content root,
// one file per course.
type FileStore struct {
	root   string
	schema *jsonschema.Schema
}

// NewFileStore builds a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	schema, err := jsonschema.CompileString("content.schema.json", contentSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile content schema: %w", err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content root: %w", err)
	}

	return &FileStore{root: root, schema: schema}, nil
}

// contentPath resolves a course-relative path and confines it to the root.
func (s *FileStore) contentPath(rel string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(filepath.Clean(path), s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("content path escapes content root: %s", rel)
	}
	return path, nil
}

func defaultRelPath(courseID uint) string {
	return filepath.ToSlash(filepath.Join("courses", fmt.Sprintf("%d.json", courseID)))
}

// Resolve loads the course's content document. The path comes from the
// course record, falling back to the per-id default location.
func (s *FileStore) Resolve(_ context.Context, course models.Course) (map[string]interface{}, error) {
	rel := course.ContentPath
	if rel == "" {
		rel = defaultRelPath(course.ID)
	}

	path, err := s.contentPath(rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to read course content: %w", err)
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	return tree, nil
}

// Save validates the tree against the content schema and writes it to the
// course's document, returning the stored relative path.
func (s *FileStore) Save(_ context.Context, courseID uint, tree map[string]interface{}) (string, error) {
	if err := s.validate(tree); err != nil {
		return "", err
	}

	rel := defaultRelPath(courseID)
	path, err := s.contentPath(rel)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode course content: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write course content: %w", err)
	}
	return rel, nil
}

// Import accepts an uploaded content document, sniffs that it is actually
// textual JSON, and stores it for the course.
func (s *FileStore) Import(ctx context.Context, courseID uint, data []byte) (string, error) {
	kind := mimetype.Detect(data)
	if !kind.Is("application/json") && !kind.Is("text/plain") {
		return "", fmt.Errorf("%w: unsupported content type %s", ErrContentInvalid, kind.String())
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return "", fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	return s.Save(ctx, courseID, tree)
}

// Remove deletes the course's content document. A missing file is not an
// error; course deletion must not block on content cleanup.
func (s *FileStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	path, err := s.contentPath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) validate(tree map[string]interface{}) error {
	// The schema library validates the generic decoded form.
	normalized, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	var decoded interface{}
	if err := json.Unmarshal(normalized, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	if err := s.schema.Validate(decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	return nil
}
