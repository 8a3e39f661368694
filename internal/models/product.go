package models

import "time"

// Product represents a marketplace listing ("produk").
type Product struct {
	ID          string    `json:"idproduk" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"namaproduk" gorm:"column:namaproduk;type:varchar(100);not null"`
	Description string    `json:"deskripsi" gorm:"column:deskripsi;type:varchar(200);not null"`
	Price       float64   `json:"harga" gorm:"column:harga;not null;default:0"`
	Quantity    int       `json:"total" gorm:"column:total;not null;default:0"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName keeps the relational table aligned with the document collection.
func (Product) TableName() string {
	return "produk"
}

// ProductView is what GET /produk/:idproduk returns.
type ProductView struct {
	ID          string `json:"idproduk"`
	Name        string `json:"namaproduk"`
	Description string `json:"deskripsi"`
	Quantity    int    `json:"total"`
}

// View projects the product for detail responses.
func (p *Product) View() ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
	}
}
