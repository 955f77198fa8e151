package web

import (
	"context"
	"errors"
	"net/http"

	apperrors "loan-broker/internal/common/errors"
	uploadimage "loan-broker/internal/operations/media/upload-image"
)

// uploadImage forwards the multipart "file" part to the image host.
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	// One extra MiB leaves room for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, uploadimage.Operation, apperrors.NewFieldError("file", uploadimage.MsgTooLarge))
			return
		}
		s.fail(w, r, uploadimage.Operation, apperrors.NewFormError("Invalid form data"))
		return
	}

	input := &uploadimage.Input{}
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		input = &uploadimage.Input{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			File:        file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		s.fail(w, r, uploadimage.Operation, apperrors.NewFormError("Invalid form data"))
		return
	}

	s.run(w, r, uploadimage.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.uploadImage.Execute(ctx, input)
	})
}
