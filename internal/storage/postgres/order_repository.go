package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
)

const (
	opTimeout = 5 * time.Second
	// maxPageLimit страхует от запроса всей таблицы одним куском.
	maxPageLimit = 200
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
// Позиции заказа хранятся в JSONB-колонке: заказ — неизменяемый снимок,
// реляционная нормализация позиций тут ничего не даёт.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, order_type,
			customer_name, customer_phone, customer_address, customer_city, customer_area,
			delivery_location, items,
			subtotal, delivery_charge, total,
			status, payment_method, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		order.ID, order.OrderNumber, string(order.Type),
		order.Customer.Name, order.Customer.Phone, order.Customer.Address,
		nullable(order.Customer.City), nullable(order.Customer.Area),
		nullable(order.DeliveryLocation), items,
		order.Subtotal, order.DeliveryCharge, order.Total,
		string(order.Status), order.PaymentMethod, nullable(order.Notes),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderNumberConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, selectColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) List(filter domain.OrderFilter) ([]domain.Order, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	limit := filter.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if filter.Status != "" {
		where = " WHERE status = $1"
		args = append(args, string(filter.Status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := selectColumns + " FROM orders" + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, total, nil
}

func (r *orderRepository) Update(id string, upd domain.OrderUpdate) (domain.Order, error) {
	if upd.Empty() {
		return domain.Order{}, domain.ErrNoUpdates
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	set := []string{"updated_at = NOW()"}
	args := []any{}
	if upd.Status != nil {
		args = append(args, string(*upd.Status))
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if upd.Notes != nil {
		args = append(args, nullable(*upd.Notes))
		set = append(set, fmt.Sprintf("notes = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d ", strings.Join(set, ", "), len(args)) +
		"RETURNING " + strings.TrimPrefix(selectColumns, "SELECT ")

	row := r.db.QueryRowContext(ctx, query, args...)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}

	return order, nil
}

const selectColumns = `SELECT id, order_number, order_type,
	customer_name, customer_phone, customer_address, customer_city, customer_area,
	delivery_location, items,
	subtotal, delivery_charge, total,
	status, payment_method, notes,
	created_at, updated_at`

// scanner покрывает *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (domain.Order, error) {
	var (
		order      domain.Order
		orderType  string
		status     string
		city       sql.NullString
		area       sql.NullString
		location   sql.NullString
		notes      sql.NullString
		itemsBytes []byte
	)

	err := row.Scan(
		&order.ID, &order.OrderNumber, &orderType,
		&order.Customer.Name, &order.Customer.Phone, &order.Customer.Address, &city, &area,
		&location, &itemsBytes,
		&order.Subtotal, &order.DeliveryCharge, &order.Total,
		&status, &order.PaymentMethod, &notes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	order.Type = domain.OrderType(orderType)
	order.Status = domain.OrderStatus(status)
	order.Customer.City = city.String
	order.Customer.Area = area.String
	order.DeliveryLocation = location.String
	order.Notes = notes.String

	if len(itemsBytes) > 0 {
		if err := json.Unmarshal(itemsBytes, &order.Items); err != nil {
			return domain.Order{}, fmt.Errorf("unmarshal order items: %w", err)
		}
	}

	return order, nil
}

// nullable превращает пустую строку в NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
