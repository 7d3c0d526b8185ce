package controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/linkup-backend/src/services"
)

// formUpload pulls one optional file out of a multipart form. A missing file
// is not an error; the returned closer is nil in that case.
func formUpload(c *fiber.Ctx, field string) (*services.Upload, io.Closer, error) {
	header, err := c.FormFile(field)
	if err != nil || header == nil {
		return nil, nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}
	return upload, file, nil
}
