package repositories

import (
	"menu-app/models"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(DB *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: DB}
}

func (r *MenuRepository) GetAll() ([]models.Menu, error) {
	var menus []models.Menu
	err := r.DB.Order("name asc").Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) GetByID(id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.DB.First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepository) GetBySlug(slug string) (*models.Menu, error) {
	var menu models.Menu
	if err := r.DB.Where("slug = ?", slug).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepository) Create(menu *models.Menu) error {
	return r.DB.Create(menu).Error
}
