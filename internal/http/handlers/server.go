package handlers

import (
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/config"
	"github.com/rogerio-castellano/retail-inventory/internal/http/ban"
	"github.com/rogerio-castellano/retail-inventory/internal/importer"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Products  repo.ProductRepository
	Users     repo.UserRepository
	Importer  *importer.Importer
	Tokens    *auth.TokenIssuer
	Bans      *ban.Service
	Logger    *zap.Logger
	Upload    config.UploadConfig
	StoreName string
}

type Handler struct {
	products  repo.ProductRepository
	users     repo.UserRepository
	importer  *importer.Importer
	tokens    *auth.TokenIssuer
	bans      *ban.Service
	logger    *zap.Logger
	upload    config.UploadConfig
	storeName string
	now       func() time.Time
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	im := d.Importer
	if im == nil {
		im = importer.New(d.Products)
	}
	return &Handler{
		products:  d.Products,
		users:     d.Users,
		importer:  im,
		tokens:    d.Tokens,
		bans:      d.Bans,
		logger:    logger,
		upload:    d.Upload,
		storeName: d.StoreName,
		now:       time.Now,
	}
}
