package services

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

// MaxProofSize is the largest accepted proof image.
const MaxProofSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ProofFile is a proof image picked by the user.
type ProofFile struct {
	Name string
	Data []byte
	// Size is the size on disk; it may exceed len(Data) when the read
	// was truncated.
	Size int64
}

type ProofService interface {
	Upload(ctx context.Context, penaltyID int64, f *ProofFile, reference string) (*models.Proof, error)
	Approve(ctx context.Context, proofID int64, note string) (*models.Proof, error)
	Decline(ctx context.Context, proofID int64, note string) (*models.Proof, error)
}

type proofService struct{ base }

func NewProofService(c api.Client, l logging.Logger) ProofService {
	return &proofService{newBase(c, l)}
}

// DetectImageType sniffs data and falls back to the file extension when the
// content is not recognised.
func DetectImageType(name string, data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if ct == "application/octet-stream" {
		if ext, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
			return ext
		}
	}
	return ct
}

// ValidateProofFile checks presence, type and size.
func ValidateProofFile(f *ProofFile) (string, error) {
	if f == nil || f.Name == "" {
		return "", invalid("file", "Please select a file to upload")
	}
	ct := DetectImageType(f.Name, f.Data)
	if !allowedImageTypes[ct] {
		return "", invalid("file", "Only JPG and PNG images are allowed")
	}
	size := f.Size
	if size < int64(len(f.Data)) {
		size = int64(len(f.Data))
	}
	if size > MaxProofSize {
		return "", invalid("file", "File size must be less than 5MB")
	}
	return ct, nil
}

func (s *proofService) Upload(ctx context.Context, penaltyID int64, f *ProofFile, reference string) (*models.Proof, error) {
	ct, err := ValidateProofFile(f)
	if err != nil {
		return nil, err
	}
	up := api.Upload{
		Filename:    filepath.Base(f.Name),
		ContentType: ct,
		Data:        f.Data,
		Reference:   common.TrimmedOrNil(reference),
	}
	p, err := s.api.UploadProof(ctx, penaltyID, up)
	if err != nil {
		return nil, s.fail(ctx, "upload proof", err, "Failed to upload proof", nil)
	}
	return p, nil
}

func (s *proofService) Approve(ctx context.Context, proofID int64, note string) (*models.Proof, error) {
	p, err := s.api.ApproveProof(ctx, proofID, common.TrimmedOrNil(note))
	if err != nil {
		return nil, s.fail(ctx, "approve proof", err, "Failed to approve proof", nil)
	}
	return p, nil
}

// Decline requires a note.
func (s *proofService) Decline(ctx context.Context, proofID int64, note string) (*models.Proof, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, invalid("admin_note", "Admin note is required when declining")
	}
	p, err := s.api.DeclineProof(ctx, proofID, note)
	if err != nil {
		return nil, s.fail(ctx, "decline proof", err, "Failed to decline proof", nil)
	}
	return p, nil
}
