package database

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE OR REPLACE FUNCTION update_updated_at_column()
		RETURNS TRIGGER AS $$
		BEGIN
			NEW.updated_at = CURRENT_TIMESTAMP;
			RETURN NEW;
		END;
		$$ language 'plpgsql';`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			shipping_flat_rate DECIMAL(10,2) NOT NULL DEFAULT 0,
			free_shipping_threshold DECIMAL(10,2),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_vendors_email ON vendors(email);`,
		`DROP TRIGGER IF EXISTS update_vendors_updated_at ON vendors;`,
		`CREATE TRIGGER update_vendors_updated_at
		BEFORE UPDATE ON vendors
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			vendor_id UUID REFERENCES vendors(id) ON DELETE SET NULL,
			name VARCHAR(255) NOT NULL,
			base_price DECIMAL(10,2) NOT NULL DEFAULT 0,
			image_url TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_products_vendor_id ON products(vendor_id);`,
		`DROP TRIGGER IF EXISTS update_products_updated_at ON products;`,
		`CREATE TRIGGER update_products_updated_at
		BEFORE UPDATE ON products
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`CREATE TABLE IF NOT EXISTS product_variations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
			price DECIMAL(10,2),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_product_variations_product_id ON product_variations(product_id);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_code VARCHAR(32) UNIQUE NOT NULL,
			session_id VARCHAR(255),
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			recipient_first_name VARCHAR(100) NOT NULL,
			recipient_last_name VARCHAR(100) NOT NULL,
			recipient_email VARCHAR(255),
			recipient_phone VARCHAR(50),
			recipient_street VARCHAR(255) NOT NULL,
			recipient_apartment VARCHAR(255),
			recipient_city VARCHAR(100) NOT NULL,
			recipient_state VARCHAR(100) NOT NULL,
			recipient_zip VARCHAR(20) NOT NULL,
			recipient_country VARCHAR(100) NOT NULL,
			card_type VARCHAR(50),
			card_price DECIMAL(10,2) NOT NULL DEFAULT 0,
			memory_type VARCHAR(20),
			memory_url TEXT,
			memory_message TEXT,
			subtotal DECIMAL(10,2) NOT NULL,
			shipping_cost DECIMAL(10,2) NOT NULL DEFAULT 0,
			tax_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
			total_amount DECIMAL(10,2) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT orders_status_check CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
			CONSTRAINT orders_memory_type_check CHECK (memory_type IS NULL OR memory_type IN ('video', 'photo', 'text'))
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_session_id ON orders(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);`,
		`DROP TRIGGER IF EXISTS update_orders_updated_at ON orders;`,
		`CREATE TRIGGER update_orders_updated_at
		BEFORE UPDATE ON orders
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			vendor_id UUID,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10,2) NOT NULL,
			total_price DECIMAL(10,2) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id);`,
		// vendor_id NULL is the general record of the order; NULLS NOT
		// DISTINCT keeps it unique too (PostgreSQL 15+)
		`CREATE TABLE IF NOT EXISTS order_qr_codes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			vendor_id UUID,
			qr_code_url TEXT NOT NULL,
			qr_payload TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT order_qr_codes_order_vendor_key UNIQUE NULLS NOT DISTINCT (order_id, vendor_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_order_qr_codes_vendor_id ON order_qr_codes(vendor_id);`,
		`CREATE TABLE IF NOT EXISTS site_settings (
			key VARCHAR(100) PRIMARY KEY,
			value TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`INSERT INTO site_settings (key, value, description)
		VALUES ('maintenance_mode', 'false', 'Answer buyer routes with 503 while true')
		ON CONFLICT (key) DO NOTHING;`,
		`DROP TRIGGER IF EXISTS update_site_settings_updated_at ON site_settings;`,
		`CREATE TRIGGER update_site_settings_updated_at
		BEFORE UPDATE ON site_settings
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`DROP TRIGGER IF EXISTS update_order_qr_codes_updated_at ON order_qr_codes;`,
		`CREATE TRIGGER update_order_qr_codes_updated_at
		BEFORE UPDATE ON order_qr_codes
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}

	return nil
}
