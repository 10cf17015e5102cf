package client

import (
	"context"

	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/netx"
)

// NewMemory is the create form. Image, when set, is uploaded by the
// service before the record is written.
type NewMemory struct {
	Title       string
	Description string
	Date        string
	Location    string
	ImageURL    string
	Image       *netx.File
}

type Client interface {
	Ping(ctx context.Context) error
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, userID string) (models.User, error)
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
	GetMemory(ctx context.Context, memoryID string) (models.Memory, error)
	CreateMemory(ctx context.Context, userID, secret string, m NewMemory) (models.Memory, error)
	UpdateMemory(ctx context.Context, memoryID, secret string, p models.MemoryPatch) (models.Memory, error)
	DeleteMemory(ctx context.Context, memoryID, secret string) error
	UploadImage(ctx context.Context, secret string, f netx.File) (string, error)
}
