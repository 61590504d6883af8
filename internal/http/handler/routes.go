package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"imagegen/internal/service"
)

// GenerateImageRequest is the body of POST /generate-image.
type GenerateImageRequest struct {
	Prompt string `json:"prompt" example:"A lighthouse at dusk, oil painting"`
}

// GenerateImageResponse carries the bare filename of the stored image.
// Despite the field name it is not a URL; fetch it from /download/{filename}.
type GenerateImageResponse struct {
	ImageURL string `json:"image_url" example:"1a2b3c4d.png"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, imageSvc service.ImageService) {
	app.Get("/health", HealthCheck())
	app.Get("/healthz", LivenessProbe())
	app.Post("/generate-image", GenerateImage(imageSvc))
	app.Get("/download/:filename", DownloadImage(imageSvc))
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
}

// LivenessProbe answers 200 with an empty body.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// GenerateImage godoc
// @Summary Generate an image from a text prompt
// @Tags images
// @Accept json
// @Produce json
// @Param request body GenerateImageRequest true "prompt"
// @Success 200 {object} GenerateImageResponse
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /generate-image [post]
func GenerateImage(imageSvc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req GenerateImageRequest
		if err := c.BodyParser(&req); err != nil || req.Prompt == "" {
			return writeError(c, fiber.StatusUnprocessableEntity, service.ErrPromptRequired.Error())
		}

		img, err := imageSvc.Generate(c.UserContext(), req.Prompt)
		if err != nil {
			if errors.Is(err, service.ErrPromptRequired) {
				return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
			}
			// Provider, decoding and disk failures all surface as one 500 carrying the raw message.
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(GenerateImageResponse{ImageURL: img.Filename})
	}
}

// DownloadImage godoc
// @Summary Download a generated image
// @Tags images
// @Produce png
// @Param filename path string true "filename returned by /generate-image"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /download/{filename} [get]
func DownloadImage(imageSvc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, img, err := imageSvc.Open(c.UserContext(), c.Params("filename"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, detailImageNotFound)
			}
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}

		c.Set(fiber.HeaderContentType, img.ContentType)
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(img.Size))
	}
}
