package service

import (
	"context"

	"panokit/internal/adapter"
	"panokit/internal/domain"
)

// TagTable is the report name of a tag export
const TagTable = "tags"

// TagColumns are the report columns of a tag export
var TagColumns = []string{"device_group", "tag_name", "color", "comments"}

// TagService exports tag objects of device groups
type TagService struct {
	fetcher adapter.Fetcher
	events  *EventBus
}

// NewTagService creates a new tag service
func NewTagService(fetcher adapter.Fetcher, events *EventBus) *TagService {
	return &TagService{fetcher: fetcher, events: events}
}

// Export returns one row per tag of each device group
func (s *TagService) Export(ctx context.Context, deviceGroups []string) (*Result, error) {
	result := &Result{
		Table: domain.NewTable(TagTable, "Device Group Tags", TagColumns...),
	}
	runner := scopeRunner{task: "Exporting tags", events: s.events}

	err := runner.run(ctx, result, deviceGroups, func(dg string) (int, error) {
		tags, err := s.fetcher.Tags(ctx, dg)
		if err != nil {
			return 0, err
		}
		for _, tag := range tags {
			if err := result.Table.AddRow(dg, tag.Name, tag.Color, tag.Comments); err != nil {
				return 0, err
			}
		}
		return len(tags), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
