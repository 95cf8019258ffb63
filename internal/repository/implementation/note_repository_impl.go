package implementation

import (
	"context"
	"errors"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/mapper"
	"color-notes-be/internal/model"
	"color-notes-be/internal/repository/contract"
	"color-notes-be/internal/repository/scope"
	"color-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	if _, err := uuid.Parse(note.DocumentId); err != nil {
		return err
	}
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return contract.ErrDuplicate
		}
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

// UpdateContent writes only title, description and color_index.
func (r *NoteRepositoryImpl) UpdateContent(ctx context.Context, documentId string, title, description string, colorIndex int) error {
	id, err := uuid.Parse(documentId)
	if err != nil {
		return contract.ErrNotFound
	}

	res := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Note{}), specification.ByID{ID: id}).
		Updates(map[string]interface{}{
			"title":       title,
			"description": description,
			"color_index": colorIndex,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, documentId string) error {
	id, err := uuid.Parse(documentId)
	if err != nil {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.Note{}, id).Error
}

func (r *NoteRepositoryImpl) FindById(ctx context.Context, documentId string) (*entity.Note, error) {
	id, err := uuid.Parse(documentId)
	if err != nil {
		return nil, nil
	}

	var m model.Note
	query := specification.ApplyAll(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAllByOwner(ctx context.Context, ownerId string) ([]*entity.Note, error) {
	owner, err := uuid.Parse(ownerId)
	if err != nil {
		return []*entity.Note{}, nil
	}

	var models []*model.Note
	query := specification.ApplyAll(r.db.WithContext(ctx), specification.NoteOwnedBy{OwnerID: owner}).
		Scopes(scope.OrderByCreatedAsc)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
