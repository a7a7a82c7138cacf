package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"image/color"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/swatch/internal/chart"
	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/version"
)

const uploadField = "image"

var errUploadTooLarge = fmt.Errorf("%w: upload exceeds size limit", colour.ErrResourceExceeded)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type paletteResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	*colour.Palette
}

type pageData struct {
	Theme      Theme
	MinColours int
	MaxColours int
	Colours    int
	X, Y       string
	Palette    *colour.Palette
	Pixel      *colour.PixelInfo
	Chart      template.URL
	Error      string
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Short(),
	})
}

func (s *Server) names(c *gin.Context) {
	colours := s.analyzer.Namer().Colours()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(colours),
		"colours": colours,
	})
}

func (s *Server) palette(c *gin.Context) {
	r, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	k, err := s.parseColours(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.analyzer.Palette(c.Request.Context(), r, k)
	if err != nil {
		s.fail(c, err)
		return
	}

	w, h := r.Bounds()
	c.JSON(http.StatusOK, paletteResponse{Width: w, Height: h, Palette: p})
}

func (s *Server) pixel(c *gin.Context) {
	r, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	x, y, err := parsePoint(c, r)
	if err != nil {
		s.fail(c, err)
		return
	}

	info, err := s.analyzer.Pixel(r, x, y)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) chart(c *gin.Context) {
	r, err := s.readUpload(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	k, err := s.parseColours(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	size := chart.DefaultSize
	if v := c.PostForm("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			s.fail(c, fmt.Errorf("%w: size must be an integer: %q", colour.ErrInvalidParameter, v))
			return
		}
	}

	p, err := s.analyzer.Palette(c.Request.Context(), r, k)
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, p.Slices(), chart.Options{Size: size}); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.newPage())
}

// analyze handles the upload form and renders results on the same page.
func (s *Server) analyze(c *gin.Context) {
	data := s.newPage()
	status, err := s.fillPage(c, &data)
	if err != nil {
		_ = c.Error(err)
		data.Error = err.Error()
	}
	c.HTML(status, "index.html", data)
}

func (s *Server) fillPage(c *gin.Context, data *pageData) (int, error) {
	r, err := s.readUpload(c)
	if err != nil {
		return statusFor(err), err
	}
	k, err := s.parseColours(c)
	if err != nil {
		return statusFor(err), err
	}
	data.Colours = k
	data.X, data.Y = c.PostForm("x"), c.PostForm("y")

	p, err := s.analyzer.Palette(c.Request.Context(), r, k)
	if err != nil {
		return statusFor(err), err
	}
	data.Palette = p

	x, y, err := parsePoint(c, r)
	if err != nil {
		return statusFor(err), err
	}
	info, err := s.analyzer.Pixel(r, x, y)
	if err != nil {
		return statusFor(err), err
	}
	data.Pixel = &info

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, p.Slices(), chart.Options{Background: color.Transparent}); err != nil {
		return statusFor(err), err
	}
	// #nosec G203 - the URL is built from our own PNG encoding.
	data.Chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))

	return http.StatusOK, nil
}

func (s *Server) newPage() pageData {
	return pageData{
		Theme:      s.cfg.Theme,
		MinColours: s.cfg.MinColours,
		MaxColours: s.cfg.MaxColours,
		Colours:    s.cfg.DefaultColours,
	}
}

// readUpload decodes the multipart image field, enforcing the body limit.
func (s *Server) readUpload(c *gin.Context) (*image.Raster, error) {
	if c.Request.ContentLength > s.cfg.MaxUploadBytes {
		return nil, errUploadTooLarge
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errUploadTooLarge
		}
		return nil, fmt.Errorf("%w: missing %q file upload: %v", colour.ErrInvalidInput, uploadField, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return s.analyzer.Decode(data)
}

func (s *Server) parseColours(c *gin.Context) (int, error) {
	v := c.PostForm("colours")
	if v == "" {
		return s.cfg.DefaultColours, nil
	}
	k, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: colours must be an integer: %q", colour.ErrInvalidParameter, v)
	}
	if k < s.cfg.MinColours || k > s.cfg.MaxColours {
		return 0, fmt.Errorf("%w: colours %d outside [%d,%d]",
			colour.ErrInvalidParameter, k, s.cfg.MinColours, s.cfg.MaxColours)
	}
	return k, nil
}

// parsePoint reads the x and y form fields, defaulting to the image centre.
func parsePoint(c *gin.Context, r *image.Raster) (int, int, error) {
	x, y := colour.CentrePoint(r)
	for _, f := range []struct {
		name string
		dst  *int
	}{{"x", &x}, {"y", &y}} {
		v := c.PostForm(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %s must be an integer: %q", colour.ErrInvalidParameter, f.name, v)
		}
		*f.dst = n
	}
	return x, y, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), errorResponse{
		Error:   colour.ErrorKind(err),
		Message: err.Error(),
	})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, colour.ErrInvalidInput), errors.Is(err, colour.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, colour.ErrResourceExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
