package cli

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/services"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
	"github.com/dmitrijs2005/penaltybox/internal/filex"
)

// Upload sends a payment proof image for a penalty. The file is checked
// locally before anything is sent.
func (a *App) Upload(ctx context.Context, args []string) error {
	pid, ok := a.argID(args[0], "penalty")
	if !ok {
		return nil
	}
	data, size, err := filex.ReadLimited(args[1], services.MaxProofSize)
	if err != nil {
		a.logger.Warn(ctx, "cannot read proof file", "path", args[1], "error", err)
		a.notifier.Error("Cannot read " + args[1])
		return err
	}
	file := &services.ProofFile{Name: args[1], Data: data, Size: size}
	reference := optional(args, 2)

	return a.modal.Run(ctx, views.MsgProofUploaded, func(ctx context.Context) error {
		_, err := a.proofs.Upload(ctx, pid, file, reference)
		return err
	})
}

func (a *App) Approve(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "proof")
	if !ok {
		return nil
	}
	note, err := getSimpleText(a.reader, "Admin note (optional)", a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgProofApproved, func(ctx context.Context) error {
		_, err := a.proofs.Approve(ctx, id, note)
		return err
	})
}

func (a *App) Decline(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "proof")
	if !ok {
		return nil
	}
	note, err := getSimpleText(a.reader, "Reason for declining (required)", a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgProofDeclined, func(ctx context.Context) error {
		_, err := a.proofs.Decline(ctx, id, note)
		return err
	})
}

type proofLister interface {
	Proofs() []models.Proof
}

// findProof looks on the current page first, then in the full review list.
func (a *App) findProof(ctx context.Context, id int64) (models.Proof, bool, error) {
	if l, ok := a.router.CurrentView().(proofLister); ok {
		for _, p := range l.Proofs() {
			if p.ID == id {
				return p, true, nil
			}
		}
	}
	proofs, err := a.api.ListProofs(ctx, models.ProofFilterAll)
	if err != nil {
		return models.Proof{}, false, a.loadFailed(ctx, views.MsgLoadProofsFailed, err)
	}
	for _, p := range proofs {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Proof{}, false, nil
}

// Image saves a proof's image under DownloadDir.
func (a *App) Image(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "proof")
	if !ok {
		return nil
	}
	proof, found, err := a.findProof(ctx, id)
	if err != nil {
		return err
	}
	if !found || proof.ImageURL == "" {
		a.notifier.Error("Proof not found")
		return nil
	}

	dir, err := filex.EnsureSubDir(DownloadDir)
	if err != nil {
		a.notifier.Error("Cannot create download directory")
		return err
	}
	name := path.Base(proof.ImageURL)
	if name == "." || name == "/" {
		name = fmt.Sprintf("proof-%d", id)
	}
	f, err := filex.CreateUnique(dir, name)
	if err != nil {
		a.notifier.Error("Cannot create file for proof image")
		return err
	}
	n, err := a.api.DownloadProofImage(ctx, proof.ImageURL, f)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(f.Name()); rmErr != nil {
			a.logger.Warn(ctx, "remove partial download", "path", f.Name(), "error", rmErr)
		}
		a.logger.Error(ctx, "proof image download failed", "proof_id", id, "error", err)
		a.notifier.Error("Failed to download proof image")
		return err
	}
	a.notifier.Success(fmt.Sprintf("Saved %s (%d bytes)", f.Name(), n))
	return nil
}
