package mcp

import (
	"context"
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// ProcessFilesInput is the input schema for the process_files tool.
type ProcessFilesInput struct {
	Paths []string `json:"paths" jsonschema:"image or PDF files, or directories of them, on the local disk"`
}

// BatchOutput describes a processed batch.
type BatchOutput struct {
	BatchID   string            `json:"batch_id"`
	Documents []DocumentSummary `json:"documents"`
	Failures  []FailureOutput   `json:"failures,omitempty"`
}

// FailureOutput is a file skipped while processing.
type FailureOutput struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

// DocumentSummary is a document without its text.
type DocumentSummary struct {
	ID         string   `json:"id"`
	FileName   string   `json:"file_name"`
	Pages      int      `json:"pages"`
	Confidence int      `json:"confidence"`
	Tags       []string `json:"tags"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// DocumentIDInput identifies a document.
type DocumentIDInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID from list_documents"`
}

// DocumentOutput is a full document.
type DocumentOutput struct {
	ID         string       `json:"id"`
	FileName   string       `json:"file_name"`
	Confidence int          `json:"confidence"`
	Tags       []string     `json:"tags"`
	Text       string       `json:"text"`
	Pages      []PageOutput `json:"pages,omitempty"`
}

// PageOutput is one page of a multi-page document.
type PageOutput struct {
	Number     int    `json:"number"`
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// TagInput is the input schema for add_tag and remove_tag.
type TagInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID"`
	Tag        string `json:"tag" jsonschema:"the tag text"`
}

// EditPageTextInput is the input schema for edit_page_text.
type EditPageTextInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID"`
	Page       int    `json:"page,omitempty" jsonschema:"1-based page number; omit for single-page documents"`
	Text       string `json:"text" jsonschema:"the corrected text"`
}

// ChangeOutput reports whether an edit changed the document.
type ChangeOutput struct {
	Changed bool     `json:"changed"`
	Tags    []string `json:"tags,omitempty"`
}

// ExportInput is the input schema for export_document.
type ExportInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID"`
	Page       int    `json:"page,omitempty" jsonschema:"export only this 1-based page"`
}

// ExportOutput is a rendered export.
type ExportOutput struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_files",
		Description: "Recognise the text of scanned images and PDFs, replacing the current batch",
	}, s.handleProcessFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents of the current batch",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get the recognised text, pages and tags of a document",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_tag",
		Description: "Add a tag to a document",
	}, s.handleAddTag)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_tag",
		Description: "Remove a tag from a document",
	}, s.handleRemoveTag)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_page_text",
		Description: "Replace the recognised text of a page",
	}, s.handleEditPageText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_document",
		Description: "Render a document or one page as a plain-text export",
	}, s.handleExport)
}

func (s *Server) handleProcessFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessFilesInput,
) (*mcp.CallToolResult, BatchOutput, error) {
	if s.ports.Load == nil {
		return nil, BatchOutput{}, ErrNoLoader
	}
	if len(input.Paths) == 0 {
		return nil, BatchOutput{}, fmt.Errorf("%w: no paths given", domain.ErrInvalidInput)
	}

	files, err := s.ports.Load(ctx, input.Paths...)
	if err != nil {
		return nil, BatchOutput{}, err
	}

	batch, err := s.ports.Session.StartBatch(ctx, files, nil)
	if err != nil {
		return nil, BatchOutput{}, fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}
	if batch == nil {
		return nil, BatchOutput{Documents: []DocumentSummary{}}, nil
	}

	out := BatchOutput{
		BatchID:   batch.ID,
		Documents: summaries(batch.Documents),
	}
	for _, f := range batch.Failures {
		out.Failures = append(out.Failures, FailureOutput(f))
	}
	return nil, out, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, BatchOutput, error) {
	batch, err := s.ports.Session.Current(ctx)
	if err != nil {
		return nil, BatchOutput{}, err
	}
	return nil, BatchOutput{BatchID: batch.ID, Documents: summaries(batch.Documents)}, nil
}

func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentIDInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Session.Document(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	out := DocumentOutput{
		ID:         doc.ID,
		FileName:   doc.FileName,
		Confidence: roundConfidence(doc.Confidence),
		Tags:       nonNil(doc.Tags),
		Text:       doc.Text,
	}
	if doc.IsMultiPage() {
		for _, p := range doc.Pages {
			out.Pages = append(out.Pages, PageOutput{
				Number:     p.Number,
				Text:       p.Text,
				Confidence: roundConfidence(p.Confidence),
			})
		}
	}
	return nil, out, nil
}

func (s *Server) handleAddTag(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TagInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	changed, err := s.ports.Session.AddTag(ctx, input.DocumentID, input.Tag)
	if err != nil {
		return nil, ChangeOutput{}, err
	}
	return s.changeOutput(ctx, input.DocumentID, changed)
}

func (s *Server) handleRemoveTag(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TagInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	changed, err := s.ports.Session.RemoveTag(ctx, input.DocumentID, input.Tag)
	if err != nil {
		return nil, ChangeOutput{}, err
	}
	return s.changeOutput(ctx, input.DocumentID, changed)
}

func (s *Server) handleEditPageText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditPageTextInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	var changed bool
	var err error
	if input.Page > 0 {
		changed, err = s.ports.Session.EditPageText(ctx, input.DocumentID, input.Page, input.Text)
	} else {
		doc, docErr := s.ports.Session.Document(ctx, input.DocumentID)
		if docErr != nil {
			return nil, ChangeOutput{}, docErr
		}
		if doc.IsMultiPage() {
			return nil, ChangeOutput{}, fmt.Errorf("%w: document %s has %d pages, set page to choose one",
				domain.ErrInvalidInput, input.DocumentID, len(doc.Pages))
		}
		changed, err = s.ports.Session.EditText(ctx, input.DocumentID, input.Text)
	}
	if err != nil {
		return nil, ChangeOutput{}, err
	}
	return nil, ChangeOutput{Changed: changed}, nil
}

func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	export, err := s.ports.Session.Export(ctx, input.DocumentID, input.Page)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput(export), nil
}

// changeOutput reports the document's tags after a tag edit.
func (s *Server) changeOutput(ctx context.Context, documentID string, changed bool) (*mcp.CallToolResult, ChangeOutput, error) {
	doc, err := s.ports.Session.Document(ctx, documentID)
	if err != nil {
		return nil, ChangeOutput{}, err
	}
	return nil, ChangeOutput{Changed: changed, Tags: doc.Tags}, nil
}

func summaries(docs []*domain.Document) []DocumentSummary {
	out := make([]DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = summary(d)
	}
	return out
}

func summary(d *domain.Document) DocumentSummary {
	return DocumentSummary{
		ID:         d.ID,
		FileName:   d.FileName,
		Pages:      len(d.Pages),
		Confidence: roundConfidence(d.Confidence),
		Tags:       nonNil(d.Tags),
	}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func roundConfidence(c float64) int {
	return int(math.Round(c))
}
