// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

const (
	jobsLimit           = 20
	advancedSearchLimit = 50
	overviewTopN        = 5
)

// # Families

// Member is the projection of a character inside a family listing.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameFR   string `json:"name_fr,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Job      string `json:"job,omitempty"`
	IsMajor  bool   `json:"is_major"`
	Status   Status `json:"status"`
}

// Family groups the characters sharing a family name.
type Family struct {
	Family       string   `json:"family"`
	Count        int      `json:"count"`
	MajorMembers int      `json:"major_members"`
	Members      []Member `json:"members"`
}

/*
Families groups characters by family, largest family first.

Description: The grouping query ranks the families, counts their major
members and projects at most [constants.GroupMemberPreview] names per family;
a second read resolves those names to member projections, in name order.
*/
func (service *Service) Families(context context.Context) ([]Family, error) {
	groups, err := service.repo.GroupBy(context, aggregate.GroupRequest{
		Field:       FieldFamily,
		Members:     FieldName,
		MemberLimit: constants.GroupMemberPreview,
		Sum:         FieldIsMajor,
	})
	if err != nil {
		return nil, err
	}

	members, err := service.members(context, FieldFamily, groups, func(character *Character) string { return character.Family })
	if err != nil {
		return nil, err
	}

	families := make([]Family, 0, len(groups))
	for _, group := range groups {
		name, _ := group.Key.(string)
		family := Family{Family: name, Count: group.Count, Members: members[name]}
		if group.Sum != nil {
			family.MajorMembers = int(*group.Sum)
		}
		families = append(families, family)
	}
	return families, nil
}

// # Jobs

// JobCount is the number of characters holding a job. Characters is only
// filled by [Service.Jobs] and holds at most [constants.GroupMemberPreview] entries.
type JobCount struct {
	Job        string   `json:"job"`
	Count      int      `json:"count"`
	Characters []Member `json:"characters,omitempty"`
}

// Jobs returns the most common jobs with a preview of who holds them.
func (service *Service) Jobs(context context.Context) ([]JobCount, error) {
	groups, err := service.repo.GroupBy(context, aggregate.GroupRequest{
		Field:       FieldJob,
		Members:     FieldName,
		MemberLimit: constants.GroupMemberPreview,
		Limit:       jobsLimit,
	})
	if err != nil {
		return nil, err
	}

	members, err := service.members(context, FieldJob, groups, func(character *Character) string { return character.Job })
	if err != nil {
		return nil, err
	}

	jobs := make([]JobCount, 0, len(groups))
	for _, group := range groups {
		job, _ := group.Key.(string)
		jobs = append(jobs, JobCount{Job: job, Count: group.Count, Characters: members[job]})
	}
	return jobs, nil
}

func (service *Service) jobs(context context.Context, limit int) ([]JobCount, error) {
	groups, err := service.repo.GroupBy(context, aggregate.GroupRequest{Field: FieldJob, Limit: limit})
	if err != nil {
		return nil, err
	}

	jobs := make([]JobCount, 0, len(groups))
	for _, group := range groups {
		job, _ := group.Key.(string)
		jobs = append(jobs, JobCount{Job: job, Count: group.Count})
	}
	return jobs, nil
}

// members resolves the names projected into each group to member summaries.
// Only the projected names are read, so every group stays within the preview bound.
func (service *Service) members(context context.Context, field string, groups []aggregate.Group, keyOf func(*Character) string) (map[string][]Member, error) {
	wanted := make(map[string]map[string]bool, len(groups))
	var names []any
	for _, group := range groups {
		key, _ := group.Key.(string)
		set := make(map[string]bool, len(group.Members))
		for _, name := range group.Members {
			set[name] = true
			names = append(names, name)
		}
		wanted[key] = set
	}

	members := make(map[string][]Member, len(groups))
	if len(names) == 0 {
		return members, nil
	}

	characters, _, err := service.repo.List(context, query.Spec{
		Where: query.Predicate{query.NonEmpty(field), query.In(FieldName, names...)},
		Sort:  Definition.Sorted(FieldName, false),
	})
	if err != nil {
		return nil, err
	}

	for _, character := range characters {
		key := keyOf(character)
		if !wanted[key][character.Name] || len(members[key]) >= constants.GroupMemberPreview {
			continue
		}
		members[key] = append(members[key], Member{
			ID:       character.ID,
			Name:     character.Name,
			NameFR:   character.NameFR,
			ImageURL: character.ImageURL,
			Job:      character.Job,
			IsMajor:  character.IsMajor,
			Status:   character.Status,
		})
	}
	return members, nil
}

// # Advanced Search

// AdvancedSpec builds the query of /characters/search/advanced: the list
// filters, "query" accepted for "search", popularity order and a fixed window.
func AdvancedSpec(values url.Values) query.Spec {
	if values.Get(query.ParamSearch) == "" && values.Get("query") != "" {
		values = cloneValues(values)
		values.Set(query.ParamSearch, values.Get("query"))
	}

	spec := advancedDefinition.Build(values)
	spec.ByRelevance = false
	spec.Sort = advancedDefinition.Sorted(FieldPopularity, true)
	spec.Page = 1
	spec.Limit = advancedSearchLimit
	return spec
}

// Search runs an advanced search and returns the hits with their count.
func (service *Service) Search(context context.Context, spec query.Spec) ([]*Character, int, error) {
	characters, _, err := service.repo.List(context, spec)
	if err != nil {
		return nil, 0, err
	}
	return characters, len(characters), nil
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, list := range values {
		out[key] = append([]string(nil), list...)
	}
	return out
}

// # Overview

// Overview summarizes the character population.
type Overview struct {
	Total              int            `json:"total"`
	Major              int            `json:"major"`
	NonMajor           int            `json:"non_major"`
	TopFamilies        []FamilyCount  `json:"top_families"`
	TopJobs            []JobCount     `json:"top_jobs"`
	StatusDistribution map[string]int `json:"status_distribution"`
}

// FamilyCount is the size of one family.
type FamilyCount struct {
	Family string `json:"family"`
	Count  int    `json:"count"`
}

// Overview computes the population summary; the sub-queries run concurrently.
func (service *Service) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{TopFamilies: []FamilyCount{}}
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		total, err := service.repo.Count(groupContext, nil)
		overview.Total = total
		return err
	})

	group.Go(func() error {
		major, err := service.repo.Count(groupContext, query.Predicate{query.Eq(FieldIsMajor, true)})
		overview.Major = major
		return err
	})

	group.Go(func() error {
		groups, err := service.repo.GroupBy(groupContext, aggregate.GroupRequest{Field: FieldFamily, Limit: overviewTopN})
		for _, family := range groups {
			name, _ := family.Key.(string)
			overview.TopFamilies = append(overview.TopFamilies, FamilyCount{Family: name, Count: family.Count})
		}
		return err
	})

	group.Go(func() error {
		jobs, err := service.jobs(groupContext, overviewTopN)
		overview.TopJobs = jobs
		return err
	})

	group.Go(func() error {
		groups, err := service.repo.GroupBy(groupContext, aggregate.GroupRequest{Field: FieldStatus})
		overview.StatusDistribution = aggregate.Keyed(groups)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	overview.NonMajor = overview.Total - overview.Major
	return overview, nil
}
