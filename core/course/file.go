package course

import (
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// PendingFile is a file uploaded to the service but not yet submitted to the backend.
type PendingFile struct {
	Filename    string
	ContentType string
	Size        int64
	Path        string // spooled copy on local disk
}

// NewPendingFile describes the spooled file at path, sniffing its content type.
func NewPendingFile(path, filename string) (PendingFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PendingFile{}, errors.Wrap(err, "stat pending file")
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return PendingFile{}, errors.Wrap(err, "detecting content type")
	}
	return PendingFile{
		Filename:    filename,
		ContentType: mtype.String(),
		Size:        info.Size(),
		Path:        path,
	}, nil
}

func (f PendingFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Descriptor is the backend metadata of a stored file.
type Descriptor struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`

	// Pending is only set in views of a draft, for files not submitted yet.
	Pending bool `json:"pending,omitempty"`
}

// FileRef is a file slot holding either a pending file or a stored descriptor, never both.
// The zero value is an empty slot.
type FileRef struct {
	pending *PendingFile
	stored  *Descriptor
}

func Pending(f PendingFile) FileRef { return FileRef{pending: &f} }
func Stored(d Descriptor) FileRef   { return FileRef{stored: &d} }

func (f FileRef) IsZero() bool    { return f.pending == nil && f.stored == nil }
func (f FileRef) IsPending() bool { return f.pending != nil }

// PendingFile returns the pending file, if any.
func (f FileRef) PendingFile() (PendingFile, bool) {
	if f.pending == nil {
		return PendingFile{}, false
	}
	return *f.pending, true
}

// Descriptor returns the stored descriptor, if any.
func (f FileRef) Descriptor() (Descriptor, bool) {
	if f.stored == nil {
		return Descriptor{}, false
	}
	return *f.stored, true
}

// view returns the descriptor shown for the slot, nil when empty.
func (f FileRef) view() *Descriptor {
	switch {
	case f.pending != nil:
		return &Descriptor{Filename: f.pending.Filename, Size: f.pending.Size, Pending: true}
	case f.stored != nil:
		d := *f.stored
		return &d
	default:
		return nil
	}
}
