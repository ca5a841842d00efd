package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/netx"
)

// Upload is a proof image ready to send. ContentType is the already
// validated MIME type.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Reference   *string
}

// UploadProof posts the image as multipart field "file", with the optional
// payment reference as field "reference".
func (c *HTTPClient) UploadProof(ctx context.Context, penaltyID int64, up Upload) (*models.Proof, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(up.Filename)))
	h.Set("Content-Type", up.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, err
	}
	if up.Reference != nil {
		if err := mw.WriteField("reference", *up.Reference); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out models.Proof
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        idPath("/proofs/upload/%d", penaltyID),
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// ListProofs returns the review queue. ProofFilterAll sends no filter.
func (c *HTTPClient) ListProofs(ctx context.Context, filter models.ProofFilter) ([]models.Proof, error) {
	var q url.Values
	if filter != "" && filter != models.ProofFilterAll {
		q = url.Values{"status_filter": {string(filter)}}
	}
	var out []models.Proof
	if err := c.get(ctx, "/proofs", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PenaltyProofs(ctx context.Context, penaltyID int64) ([]models.Proof, error) {
	var out []models.Proof
	if err := c.get(ctx, idPath("/proofs/penalty/%d", penaltyID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveProof sends {"admin_note": null} when adminNote is nil.
func (c *HTTPClient) ApproveProof(ctx context.Context, proofID int64, adminNote *string) (*models.Proof, error) {
	var out models.Proof
	if err := c.post(ctx, idPath("/proofs/%d/approve", proofID), models.ReviewInput{AdminNote: adminNote}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeclineProof(ctx context.Context, proofID int64, adminNote string) (*models.Proof, error) {
	var out models.Proof
	if err := c.post(ctx, idPath("/proofs/%d/decline", proofID), models.ReviewInput{AdminNote: &adminNote}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProofImageURL resolves a proof's stored image name against the
// backend's uploads directory.
func (c *HTTPClient) ProofImageURL(imageURL string) string {
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}
	return c.baseURL + "/uploads/" + strings.TrimLeft(imageURL, "/")
}

// DownloadProofImage streams the proof image to w.
func (c *HTTPClient) DownloadProofImage(ctx context.Context, imageURL string, w io.Writer) (int64, error) {
	h := http.Header{}
	auth, err := c.authHeader(ctx)
	if err != nil {
		return 0, err
	}
	if auth != "" {
		h.Set(common.AuthorizationHeader, auth)
	}
	h.Set(common.RequestIDHeader, c.requestID())

	n, err := netx.Download(ctx, c.http, c.ProofImageURL(imageURL), h, w)
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) {
			return 0, newAPIError(se.StatusCode, h.Get(common.RequestIDHeader), se.Body)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return n, nil
}
