package migrate

import (
	"context"

	"store-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto
	CreateChecks           bool // CHECK constraints for status sets and amounts
	CreateIndexes          bool // composite indexes and the inventory unique key
	CreateFKsViaSQL        bool // FKs gorm cannot express (SET NULL)
	CreateUpdatedAtTrigger bool
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

type step struct {
	name string
	sql  string
}

var updatedAtTables = []string{
	"products", "cart_lines", "orders", "delivery_trackings",
	"payment_transactions", "customers", "farm_tools", "inventories",
}

var checks = []step{
	{"chk_products_stock_non_negative", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (stock >= 0);`},
	{"chk_products_price_non_negative", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative CHECK (price_cents >= 0);`},
	{"chk_cart_lines_quantity_positive", `
ALTER TABLE cart_lines DROP CONSTRAINT IF EXISTS chk_cart_lines_quantity_positive;
ALTER TABLE cart_lines ADD CONSTRAINT chk_cart_lines_quantity_positive CHECK (quantity >= 1);`},
	{"chk_orders_status_allowed", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','processing','shipped','delivered','cancelled'));`},
	{"chk_orders_total_non_negative", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_total_non_negative CHECK (total_price_cents >= 0);`},
	{"chk_orders_currency_code_len", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_currency_code_len;
ALTER TABLE orders ADD CONSTRAINT chk_orders_currency_code_len CHECK (char_length(currency_code) = 3);`},
	{"chk_order_items_quantity_gt_zero", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity_gt_zero CHECK (quantity > 0);`},
	{"chk_order_items_subtotal", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_subtotal;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_subtotal
  CHECK (unit_price_cents >= 0 AND subtotal_cents = unit_price_cents * quantity);`},
	{"chk_delivery_trackings_status_allowed", `
ALTER TABLE delivery_trackings DROP CONSTRAINT IF EXISTS chk_delivery_trackings_status_allowed;
ALTER TABLE delivery_trackings ADD CONSTRAINT chk_delivery_trackings_status_allowed
  CHECK (status IN ('preparing','in_transit','out_for_delivery','delivered','failed'));`},
	{"chk_payment_transactions_status_allowed", `
ALTER TABLE payment_transactions DROP CONSTRAINT IF EXISTS chk_payment_transactions_status_allowed;
ALTER TABLE payment_transactions ADD CONSTRAINT chk_payment_transactions_status_allowed
  CHECK (status IN ('pending','completed','failed','refunded'));`},
	{"chk_payment_transactions_amount_non_negative", `
ALTER TABLE payment_transactions DROP CONSTRAINT IF EXISTS chk_payment_transactions_amount_non_negative;
ALTER TABLE payment_transactions ADD CONSTRAINT chk_payment_transactions_amount_non_negative CHECK (amount_cents >= 0);`},
	{"chk_notifications_type_allowed", `
ALTER TABLE notifications DROP CONSTRAINT IF EXISTS chk_notifications_type_allowed;
ALTER TABLE notifications ADD CONSTRAINT chk_notifications_type_allowed
  CHECK (type IN ('order_update','promotion','system'));`},
	{"chk_customers_loyalty_non_negative", `
ALTER TABLE customers DROP CONSTRAINT IF EXISTS chk_customers_loyalty_non_negative;
ALTER TABLE customers ADD CONSTRAINT chk_customers_loyalty_non_negative CHECK (loyalty_points >= 0);`},
	{"chk_farm_tools_type_allowed", `
ALTER TABLE farm_tools DROP CONSTRAINT IF EXISTS chk_farm_tools_type_allowed;
ALTER TABLE farm_tools ADD CONSTRAINT chk_farm_tools_type_allowed
  CHECK (tool_type IN ('tractor','plow','harvester','irrigation','other'));`},
	{"chk_inventories_item_variant", `
ALTER TABLE inventories DROP CONSTRAINT IF EXISTS chk_inventories_item_variant;
ALTER TABLE inventories ADD CONSTRAINT chk_inventories_item_variant CHECK (
  (item_kind = 'product' AND product_id IS NOT NULL AND farm_tool_id IS NULL) OR
  (item_kind = 'tool' AND farm_tool_id IS NOT NULL AND product_id IS NULL));`},
	{"chk_reviews_rating_range", `
ALTER TABLE reviews DROP CONSTRAINT IF EXISTS chk_reviews_rating_range;
ALTER TABLE reviews ADD CONSTRAINT chk_reviews_rating_range CHECK (rating BETWEEN 1 AND 5);`},
	{"chk_inventories_quantity_non_negative", `
ALTER TABLE inventories DROP CONSTRAINT IF EXISTS chk_inventories_quantity_non_negative;
ALTER TABLE inventories ADD CONSTRAINT chk_inventories_quantity_non_negative CHECK (quantity >= 0);`},
}

var indexes = []step{
	{"ix_orders_user_number", `CREATE INDEX IF NOT EXISTS ix_orders_user_number ON orders (user_id, number DESC);`},
	{"ix_notifications_user_created", `CREATE INDEX IF NOT EXISTS ix_notifications_user_created ON notifications (user_id, created_at DESC);`},
	{"ix_notifications_unread", `CREATE INDEX IF NOT EXISTS ix_notifications_unread ON notifications (user_id) WHERE is_read = false;`},
	{"ix_cart_lines_updated", `CREATE INDEX IF NOT EXISTS ix_cart_lines_updated ON cart_lines (updated_at);`},
	{"ix_reviews_product_approved", `CREATE INDEX IF NOT EXISTS ix_reviews_product_approved ON reviews (product_id, created_at DESC) WHERE is_approved;`},
	// NULLS NOT DISTINCT needs PostgreSQL 15+
	{"ux_inventories_item_location", `
ALTER TABLE inventories DROP CONSTRAINT IF EXISTS ux_inventories_item_location;
ALTER TABLE inventories ADD CONSTRAINT ux_inventories_item_location
  UNIQUE NULLS NOT DISTINCT (item_kind, product_id, farm_tool_id, location);`},
}

var foreignKeys = []step{
	{"fk_order_items_product", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL;`},
	{"fk_products_category", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_category,
  ADD CONSTRAINT fk_products_category
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL;`},
	{"fk_reviews_product", `
ALTER TABLE reviews
  DROP CONSTRAINT IF EXISTS fk_reviews_product,
  ADD CONSTRAINT fk_reviews_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;`},
	{"fk_notifications_order", `
ALTER TABLE notifications
  DROP CONSTRAINT IF EXISTS fk_notifications_order,
  ADD CONSTRAINT fk_notifications_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE SET NULL;`},
}

func run(db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Error("migration step failed", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateStoreDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	db = db.WithContext(ctx)
	log.Info("starting store database migration")

	if opt.CreateExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("failed to enable pgcrypto", zap.Error(err))
			return err
		}
		log.Info("extensions created")
	}

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryTracking{},
		&models.PaymentTransaction{},
		&models.Notification{},
		&models.Customer{},
		&models.FarmTool{},
		&models.Inventory{},
	); err != nil {
		log.Error("failed to create tables", zap.Error(err))
		return err
	}
	log.Info("tables created")

	if opt.CreateUpdatedAtTrigger {
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;`).Error; err != nil {
			log.Error("failed to create set_updated_at()", zap.Error(err))
			return err
		}
		for _, table := range updatedAtTables {
			if err := db.Exec(`
DROP TRIGGER IF EXISTS trg_` + table + `_updated ON ` + table + `;
CREATE TRIGGER trg_` + table + `_updated
BEFORE UPDATE ON ` + table + `
FOR EACH ROW EXECUTE FUNCTION set_updated_at();`).Error; err != nil {
				log.Error("failed to create updated_at trigger", zap.String("table", table), zap.Error(err))
				return err
			}
		}
		log.Info("updated_at triggers created")
	}

	if opt.CreateChecks {
		if err := run(db, log, checks); err != nil {
			return err
		}
		log.Info("check constraints created", zap.Int("count", len(checks)))
	}

	if opt.CreateIndexes {
		if err := run(db, log, indexes); err != nil {
			return err
		}
		log.Info("indexes created", zap.Int("count", len(indexes)))
	}

	if opt.CreateFKsViaSQL {
		if err := run(db, log, foreignKeys); err != nil {
			return err
		}
		log.Info("foreign keys created", zap.Int("count", len(foreignKeys)))
	}

	log.Info("store database migration finished")
	return nil
}
