// internal/dom/datatransfer.go
package dom

import (
	"strings"
	"time"
)

// File is an in-memory file as handed to file inputs and clipboard items.
type File struct {
	Name         string
	Type         string
	Content      []byte
	LastModified time.Time
}

// NewFile creates a file with the given name, MIME type and content.
func NewFile(name, mimeType string, content []byte) *File {
	return &File{Name: name, Type: mimeType, Content: content, LastModified: time.Now()}
}

// Size returns the content length in bytes.
func (f *File) Size() int { return len(f.Content) }

// Text returns the content as a string.
func (f *File) Text() string { return string(f.Content) }

// DataTransferItem is one entry of a DataTransfer.
type DataTransferItem struct {
	Kind string // "string" or "file"
	Type string
	data string
	file *File
}

// GetAsString returns the data of a string item.
func (i *DataTransferItem) GetAsString() string { return i.data }

// GetAsFile returns the file of a file item.
func (i *DataTransferItem) GetAsFile() *File { return i.file }

// DataTransfer holds drag and clipboard data.
type DataTransfer struct {
	DropEffect    string
	EffectAllowed string
	items         []*DataTransferItem
}

// NewDataTransfer creates an empty DataTransfer.
func NewDataTransfer() *DataTransfer {
	return &DataTransfer{DropEffect: "none", EffectAllowed: "uninitialized"}
}

func normalizeFormat(format string) string {
	format = strings.ToLower(format)
	switch format {
	case "text":
		return "text/plain"
	case "url":
		return "text/uri-list"
	}
	return format
}

// GetData returns the string data for a format.
func (dt *DataTransfer) GetData(format string) string {
	format = normalizeFormat(format)
	for _, it := range dt.items {
		if it.Kind == "string" && it.Type == format {
			return it.data
		}
	}
	return ""
}

// SetData replaces the string data for a format.
func (dt *DataTransfer) SetData(format, data string) {
	format = normalizeFormat(format)
	for _, it := range dt.items {
		if it.Kind == "string" && it.Type == format {
			it.data = data
			return
		}
	}
	dt.items = append(dt.items, &DataTransferItem{Kind: "string", Type: format, data: data})
}

// ClearData removes the string data of the given formats, or all string data.
func (dt *DataTransfer) ClearData(formats ...string) {
	keep := dt.items[:0]
	for _, it := range dt.items {
		drop := it.Kind == "string" && len(formats) == 0
		for _, f := range formats {
			if it.Kind == "string" && it.Type == normalizeFormat(f) {
				drop = true
			}
		}
		if !drop {
			keep = append(keep, it)
		}
	}
	dt.items = keep
}

// AddFile appends a file item.
func (dt *DataTransfer) AddFile(f *File) {
	dt.items = append(dt.items, &DataTransferItem{Kind: "file", Type: f.Type, file: f})
}

// Files returns the files of the file items.
func (dt *DataTransfer) Files() []*File {
	var out []*File
	for _, it := range dt.items {
		if it.Kind == "file" {
			out = append(out, it.file)
		}
	}
	return out
}

// Items returns the items in insertion order.
func (dt *DataTransfer) Items() []*DataTransferItem {
	return append([]*DataTransferItem(nil), dt.items...)
}

// Types returns the formats of the string items, plus "Files" when files are present.
func (dt *DataTransfer) Types() []string {
	var out []string
	hasFiles := false
	for _, it := range dt.items {
		if it.Kind == "file" {
			hasFiles = true
			continue
		}
		out = append(out, it.Type)
	}
	if hasFiles {
		out = append(out, "Files")
	}
	return out
}

// Clone returns a copy sharing the file contents.
func (dt *DataTransfer) Clone() *DataTransfer {
	c := &DataTransfer{DropEffect: dt.DropEffect, EffectAllowed: dt.EffectAllowed}
	for _, it := range dt.items {
		cp := *it
		c.items = append(c.items, &cp)
	}
	return c
}

// Clipboard is a per-session system clipboard.
type Clipboard struct {
	data *DataTransfer
}

// NewClipboard returns an empty clipboard.
func NewClipboard() *Clipboard { return &Clipboard{data: NewDataTransfer()} }

// Read returns a copy of the clipboard contents.
func (c *Clipboard) Read() *DataTransfer { return c.data.Clone() }

// Write replaces the clipboard contents.
func (c *Clipboard) Write(dt *DataTransfer) { c.data = dt.Clone() }

// ReadText returns the text/plain contents.
func (c *Clipboard) ReadText() string { return c.data.GetData("text/plain") }

// WriteText replaces the contents with plain text.
func (c *Clipboard) WriteText(text string) {
	dt := NewDataTransfer()
	dt.SetData("text/plain", text)
	c.data = dt
}

// Reset empties the clipboard.
func (c *Clipboard) Reset() { c.data = NewDataTransfer() }
