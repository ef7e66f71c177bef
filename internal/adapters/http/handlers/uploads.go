package handlers

import (
	"io"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx reads the authenticated actor placed in the request context
// by the auth middleware
func actorFromCtx(c *fiber.Ctx) (services.Actor, bool) {
	employeeID, ok := c.Locals("employeeID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: employeeID, Role: domain.Role(role)}, true
}

// collectUploads reads the "files" parts of a multipart request. A plain
// JSON request simply yields no uploads.
func collectUploads(c *fiber.Ctx) ([]services.FileUpload, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	var uploads []services.FileUpload
	for _, header := range form.File["files"] {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, services.FileUpload{
			FileName: header.Filename,
			Content:  content,
		})
	}
	return uploads, nil
}
