package models

// InvoiceSequence holds the last invoice number issued on a business day (YYYYMMDD).
type InvoiceSequence struct {
	BusinessDate string `gorm:"column:business_date;primaryKey"`
	LastSeq      int    `gorm:"column:last_seq;not null;default:0"`
}

func (InvoiceSequence) TableName() string { return "invoice_sequences" }
