package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/splitpot/splitpot/internal/domain"
)

// GroupUseCase handles group lifecycle and membership.
type GroupUseCase struct {
	groupRepo GroupRepository
	idGen     IDGenerator
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(groupRepo GroupRepository, idGen IDGenerator) *GroupUseCase {
	return &GroupUseCase{groupRepo: groupRepo, idGen: idGen}
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name      string
	Currency  string
	CreatedBy string
	Members   []string
}

// CreateGroup creates a group. The creator is always a member.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	members := input.Members
	if !containsID(members, input.CreatedBy) {
		members = append([]string{input.CreatedBy}, members...)
	}

	now := time.Now().UTC()
	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Currency:  strings.ToUpper(strings.TrimSpace(input.Currency)),
		CreatedBy: input.CreatedBy,
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}

	if err := uc.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroup retrieves a group with its members.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groupRepo.GetByID(ctx, id)
}

// AddMembers adds the given users to the group, skipping existing members.
func (uc *GroupUseCase) AddMembers(ctx context.Context, groupID string, userIDs []string) (*domain.Group, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var newMembers []string
	for _, id := range userIDs {
		if !group.HasMember(id) && !containsID(newMembers, id) {
			newMembers = append(newMembers, id)
		}
	}

	if len(newMembers) == 0 {
		return group, nil
	}

	now := time.Now().UTC()
	if err := uc.groupRepo.AddMembers(ctx, groupID, newMembers, now); err != nil {
		return nil, err
	}

	return uc.groupRepo.GetByID(ctx, groupID)
}

// ListGroupsInput represents input for listing groups.
type ListGroupsInput struct {
	Limit  int
	Offset int
}

// ListGroups lists groups.
func (uc *GroupUseCase) ListGroups(ctx context.Context, input ListGroupsInput) ([]*domain.Group, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.groupRepo.List(ctx, limit, offset)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
