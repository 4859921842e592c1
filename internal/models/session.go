package models

import (
	"segfeatures/pkg/features"
	"segfeatures/pkg/imageio"
)

// Session holds the image currently loaded by a front end and the most
// recent computation on it. A Session has a single owner and is not safe
// for concurrent use.
type Session struct {
	// Image is the loaded image, nil until Load succeeds
	Image *imageio.Image

	// Result is the last successful computation on Image
	Result *features.Result
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Load replaces the current image with the one at path and clears any
// previous result. On failure the session is left unchanged.
func (s *Session) Load(path string) error {
	img, err := imageio.Load(path)
	if err != nil {
		return err
	}

	s.SetImage(img)
	return nil
}

// SetImage replaces the current image and clears any previous result
func (s *Session) SetImage(img *imageio.Image) {
	s.Image = img
	s.Result = nil
}

// Loaded reports whether an image is available for computation
func (s *Session) Loaded() bool {
	return s.Image != nil && s.Image.Grid != nil
}

// Compute runs the feature pipeline on the loaded image. It fails with
// features.ErrNoImage when nothing is loaded. A failed computation keeps
// the previous Result; a successful one replaces it.
func (s *Session) Compute(params features.Params) (*features.Result, error) {
	if !s.Loaded() {
		return nil, features.ErrNoImage
	}

	res, err := features.Compute(s.Image.Grid, params)
	if err != nil {
		return nil, err
	}

	s.Result = res
	return res, nil
}
