package service

import (
	"context"
	"log"
	"strings"

	"panokit/internal/adapter"
	"panokit/internal/domain"
)

// previewGroups is how many device group names a summary lists
const previewGroups = 5

// Summary is a quick health check of a Panorama connection. Each part is
// fetched independently; a failed part carries its error.
type Summary struct {
	System    *domain.SystemInfo
	SystemErr error

	DeviceGroups    []string
	DeviceGroupsErr error

	SharedObjects    int
	SharedObjectsErr error
}

// DeviceGroupPreview lists the first five device groups, with "..." when
// there are more
func (s *Summary) DeviceGroupPreview() string {
	if len(s.DeviceGroups) <= previewGroups {
		return strings.Join(s.DeviceGroups, ", ")
	}
	return strings.Join(s.DeviceGroups[:previewGroups], ", ") + "..."
}

// InfoService gathers basic information about a Panorama
type InfoService struct {
	fetcher adapter.Fetcher
}

// NewInfoService creates a new info service
func NewInfoService(fetcher adapter.Fetcher) *InfoService {
	return &InfoService{fetcher: fetcher}
}

// Summary fetches system info, device groups and the shared address
// object count. It fails only when ctx is done.
func (s *InfoService) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary

	sum.System, sum.SystemErr = s.fetcher.SystemInfo(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum.DeviceGroups, sum.DeviceGroupsErr = s.fetcher.DeviceGroups(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	objects, err := s.fetcher.AddressObjects(ctx, domain.SharedScope)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum.SharedObjects, sum.SharedObjectsErr = len(objects), err

	for _, e := range []error{sum.SystemErr, sum.DeviceGroupsErr, sum.SharedObjectsErr} {
		if e != nil {
			log.Printf("service: info: %v", e)
		}
	}
	return &sum, nil
}
