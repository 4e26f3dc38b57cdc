package admincli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/flagx"
	"github.com/dmitrijs2005/photoalbum/internal/netx"
	"github.com/dmitrijs2005/photoalbum/internal/server/models"
	"github.com/dmitrijs2005/photoalbum/internal/server/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Reconcile runs one reconciliation pass and prints its report.
func (a *App) Reconcile(ctx context.Context, _ []string) error {
	report, err := a.reconciler.Run(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// UserAdd prompts for the account fields and the password, which is read
// without echo and wiped once hashed.
func (a *App) UserAdd(ctx context.Context, _ []string) error {
	var in services.NewUser
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Username", &in.UserName},
		{"Avatar URL", &in.Avatar},
		{"City", &in.City},
	}
	for _, f := range fields {
		v, err := getRequired(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	for {
		v, err := getRequired(a.reader, "Age", a.out)
		if err != nil {
			return err
		}
		age, err := strconv.Atoi(v)
		if err == nil && age >= 0 {
			in.Age = age
			break
		}
		fmt.Fprintln(a.out, "Age must be a number.")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		return fmt.Errorf("%w: empty password", common.ErrorValidation)
	}
	in.Password = password

	u, err := a.users.Register(ctx, in)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("username %q is taken", in.UserName)
		}
		return err
	}

	fmt.Fprintf(a.out, "Created user %s (%s)\n", u.UserName, u.ID)
	return nil
}

var uploadFlags = []string{"-album", "-file", "-title", "-description", "-type"}

// Upload sends a local file to object storage through a presigned URL and
// attaches a photo pointing at the stored object.
func (a *App) Upload(ctx context.Context, args []string) error {
	var albumID, path, title, description, contentType string

	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&albumID, "album", "", "album id")
	fs.StringVar(&path, "file", "", "file to upload")
	fs.StringVar(&title, "title", "", "photo title (default: file name)")
	fs.StringVar(&description, "description", "", "photo description (default: title)")
	fs.StringVar(&contentType, "type", "", "content type (default: from extension)")
	if err := fs.Parse(flagx.FilterArgs(args, uploadFlags)); err != nil {
		return err
	}
	if albumID == "" || path == "" {
		return fmt.Errorf("%w: -album and -file are required", common.ErrorValidation)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if title == "" {
		title = filepath.Base(path)
	}
	if description == "" {
		description = title
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}

	up, err := a.media.PresignUpload(ctx, albumID)
	if err != nil {
		return err
	}
	if err := netx.UploadToPresignedURL(ctx, a.httpClient, up.UploadURL, contentType, body); err != nil {
		return err
	}

	photo, _, err := a.photos.AttachPhoto(ctx, albumID, models.Photo{Title: title, URL: up.URL, Description: description})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s as photo %s (%s)\n", filepath.Base(path), photo.ID, up.URL)
	return nil
}
