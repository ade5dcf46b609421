package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/imgchan/channel"
	"github.com/imgchan/loader"
	"github.com/imgchan/model"
	"github.com/imgchan/web/uploader"
)

const (
	outputExt   = ".jpg"
	maxFormSize = 32 << 20
)

// Loader loads images from references.
type Loader interface {
	Load(context.Context, model.Reference, loader.Options) (*model.Payload, error)
}

// Service represents handler service.
type Service struct {
	repo     model.ExtractionsRepository
	uploader uploader.Service
	loader   Loader
	log      zerolog.Logger
}

// NewService returns new handler service.
func NewService(repo model.ExtractionsRepository, uploader uploader.Service, loader Loader, log zerolog.Logger) *Service {
	return &Service{repo: repo, uploader: uploader, loader: loader, log: log}
}

// All returns all extractions.
func (s *Service) All(w http.ResponseWriter, r *http.Request) {
	data, statusCode := func() ([]byte, int) {
		extractions, err := s.repo.All(r.Context())
		if err != nil {
			return s.fail(http.StatusInternalServerError, "error getting extractions from db: %v", err)
		}
		res, err := json.Marshal(extractions)
		if err != nil {
			return s.fail(http.StatusInternalServerError, "error during marshaling extractions: %v", err)
		}
		return res, http.StatusOK
	}()
	response(w, data, statusCode)
}

// GetByID returns a single extraction.
func (s *Service) GetByID(w http.ResponseWriter, r *http.Request) {
	data, statusCode := func() ([]byte, int) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			return s.fail(http.StatusBadRequest, "error converting id to int: %v", err)
		}
		extraction, err := s.repo.GetOne(r.Context(), id)
		if errors.Is(err, sql.ErrNoRows) {
			return s.fail(http.StatusNotFound, "extraction %d not found", id)
		}
		if err != nil {
			return s.fail(http.StatusInternalServerError, "couldn't get extraction by id: %d with error: %v", id, err)
		}
		res, err := json.Marshal(extraction)
		if err != nil {
			return s.fail(http.StatusInternalServerError, "error marshaling result: %v", err)
		}
		return res, http.StatusOK
	}()
	response(w, data, statusCode)
}

// Create extracts a channel from the image given either by the src query
// param or by the multipart "file" field.
func (s *Service) Create(w http.ResponseWriter, r *http.Request) {
	data, statusCode := func() ([]byte, int) {
		ctx := r.Context()
		target, err := validateChannelParam(r)
		if err != nil {
			return s.fail(http.StatusBadRequest, "error validating channel param: %v", err)
		}

		source, input, statusCode, err := s.readSource(r)
		if err != nil {
			return s.fail(statusCode, "%v", err)
		}

		res, err := channel.Extract(ctx, input, target)
		if errors.Is(err, channel.ErrDecode) || errors.Is(err, channel.ErrChannel) {
			return s.fail(http.StatusBadRequest, "error extracting channel from %s: %v", source, err)
		}
		if err != nil {
			return s.fail(http.StatusInternalServerError, "error extracting channel from %s: %v", source, err)
		}

		inputURL, outputURL, err := s.uploadImages(ctx, [2][]byte{input, res.Data}, sourceExt(source))
		if err != nil {
			return s.fail(http.StatusInternalServerError, "error uploading images: %v", err)
		}

		extraction := model.Extraction{
			Source:     source,
			Channel:    target,
			Resolution: res.Resolution(),
			InputURL:   inputURL,
			OutputURL:  outputURL,
		}
		id, err := s.repo.Save(ctx, extraction)
		if err != nil {
			return s.fail(http.StatusInternalServerError, "%v", err)
		}
		extraction.ID = id

		b, err := json.Marshal(extraction)
		if err != nil {
			return s.fail(http.StatusInternalServerError, "error marshaling result: %v", err)
		}
		return b, http.StatusCreated
	}()
	response(w, data, statusCode)
}

func (s *Service) readSource(r *http.Request) (string, []byte, int, error) {
	if src := r.URL.Query().Get("src"); src != "" {
		ref := model.ParseReference(src)
		if !ref.IsRemote() {
			return "", nil, http.StatusBadRequest, fmt.Errorf("src must be an absolute URL: %s", src)
		}
		opts := loader.Options{DisableCache: r.URL.Query().Get("cache") == "false"}
		payload, err := s.loader.Load(r.Context(), ref, opts)
		var downloadErr *model.DownloadError
		if errors.As(err, &downloadErr) {
			return "", nil, http.StatusBadGateway, err
		}
		if err != nil {
			return "", nil, http.StatusInternalServerError, err
		}
		for _, warning := range payload.Warnings {
			s.log.Warn().Err(warning).Str("src", src).Msg("Image loaded with warnings")
		}
		return src, payload.Data, http.StatusOK, nil
	}

	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("neither src nor file given: %v", err)
	}
	file, h, err := r.FormFile("file")
	if err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("error reading file: %v", err)
	}
	defer file.Close()

	b, err := io.ReadAll(file)
	if err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("error reading file %s with error: %v", h.Filename, err)
	}
	return h.Filename, b, http.StatusOK, nil
}

// uploadImages uploads the input and the output concurrently and returns
// their locations in the same order.
func (s *Service) uploadImages(ctx context.Context, images [2][]byte, inputExt string) (string, string, error) {
	var locations [2]string
	exts := [2]string{inputExt, outputExt}

	g, ctx := errgroup.WithContext(ctx)
	for i := range images {
		i := i
		g.Go(func() error {
			hash, err := calculateMD5(bytes.NewReader(images[i]))
			if err != nil {
				return err
			}
			locations[i], err = s.uploader.Upload(ctx, name(hash, exts[i]), bytes.NewReader(images[i]))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return locations[0], locations[1], nil
}

func (s *Service) fail(statusCode int, format string, args ...interface{}) ([]byte, int) {
	msg := fmt.Sprintf(format, args...)
	if statusCode >= http.StatusInternalServerError {
		s.log.Error().Int("status", statusCode).Msg(msg)
	} else {
		s.log.Debug().Int("status", statusCode).Msg(msg)
	}
	return []byte(msg), statusCode
}

func calculateMD5(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating md5 was failed with error: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func name(hash, ext string) string {
	return hash + ext
}

func sourceExt(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	if ext := strings.ToLower(path.Ext(source)); ext != "" {
		return ext
	}
	return outputExt
}

func response(w http.ResponseWriter, data []byte, statusCode int) {
	contentType := "application/json"
	if statusCode >= http.StatusBadRequest {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Add("Content-Type", contentType)
	w.WriteHeader(statusCode)
	w.Write(data)
}

func validateChannelParam(r *http.Request) (int, error) {
	c, err := strconv.Atoi(r.URL.Query().Get("channel"))
	if err != nil {
		return 0, fmt.Errorf("invalid channel param")
	}
	if c < 0 || c > 3 {
		return 0, fmt.Errorf("channel is not in range [0-3]")
	}
	return c, nil
}
