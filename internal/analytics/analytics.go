// Package analytics считает статистику админки поверх коллекции заказов.
// Все функции — детерминированные чистые свёртки: ничего не кэшируется
// и не мутируется, цифры пересчитываются на каждый просмотр.
package analytics

import (
	"sort"
	"time"

	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
)

// CustomerStats — агрегат по покупателю; ключ — номер телефона.
type CustomerStats struct {
	Name        string
	Phone       string
	TotalOrders int
	// TotalSpent включает отменённые заказы: сводка по покупателю
	// намеренно не фильтруется по статусу, в отличие от Revenue.
	TotalSpent  int64
	LastOrderAt time.Time
}

// CustomerRollup группирует заказы по телефону. Имя берётся из самого
// свежего заказа. Заказы без телефона в сводку не попадают.
// Результат отсортирован по дате последнего заказа, свежие первыми.
func CustomerRollup(orders []domain.Order) []CustomerStats {
	byPhone := make(map[string]*CustomerStats)

	for _, order := range orders {
		phone := order.Customer.Phone
		if phone == "" {
			continue
		}

		stats, ok := byPhone[phone]
		if !ok {
			stats = &CustomerStats{Phone: phone}
			byPhone[phone] = stats
		}

		stats.TotalOrders++
		stats.TotalSpent += order.Total
		if !order.CreatedAt.Before(stats.LastOrderAt) {
			stats.LastOrderAt = order.CreatedAt
			stats.Name = order.Customer.Name
		}
	}

	out := make([]CustomerStats, 0, len(byPhone))
	for _, stats := range byPhone {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastOrderAt.Equal(out[j].LastOrderAt) {
			return out[i].LastOrderAt.After(out[j].LastOrderAt)
		}
		return out[i].Phone < out[j].Phone
	})
	return out
}

// Revenue — суммарная выручка без отменённых заказов.
func Revenue(orders []domain.Order) int64 {
	var total int64
	for _, order := range orders {
		if order.Status == domain.OrderStatusCancelled {
			continue
		}
		total += order.Total
	}
	return total
}

// AverageOrderValue — средний чек по неотменённым заказам, округлённый до така.
func AverageOrderValue(orders []domain.Order) int64 {
	var total int64
	var count int64
	for _, order := range orders {
		if order.Status == domain.OrderStatusCancelled {
			continue
		}
		total += order.Total
		count++
	}
	if count == 0 {
		return 0
	}
	// Округление к ближайшему.
	return (total + count/2) / count
}

// TodayCount — число заказов, созданных сегодня по локальному календарю now.
func TodayCount(orders []domain.Order, now time.Time) int {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count := 0
	for _, order := range orders {
		if !order.CreatedAt.In(now.Location()).Before(start) {
			count++
		}
	}
	return count
}

// DayBucket — заказы и выручка одного календарного дня.
type DayBucket struct {
	Date    time.Time
	Orders  int
	Revenue int64
}

// DailySeries раскладывает заказы по последним days календарным дням
// (границы дня локальные, не UTC). Возвращает ровно days бакетов,
// от самого старого к сегодняшнему; пустые дни остаются нулевыми.
func DailySeries(orders []domain.Order, days int, now time.Time) []DayBucket {
	if days <= 0 {
		return nil
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(days - 1))

	buckets := make([]DayBucket, days)
	for i := range buckets {
		buckets[i].Date = first.AddDate(0, 0, i)
	}

	for _, order := range orders {
		created := order.CreatedAt.In(loc)
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, loc)
		idx := int(day.Sub(first).Hours() / 24)
		if idx < 0 || idx >= days {
			continue
		}
		buckets[idx].Orders++
		buckets[idx].Revenue += order.Total
	}

	return buckets
}

// ProductSales — продажи одного товара по всем заказам.
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int32
	Revenue   int64
}

// TopProducts группирует позиции заказов по товару и возвращает
// топ-k по выручке, по убыванию.
func TopProducts(orders []domain.Order, k int) []ProductSales {
	byProduct := make(map[string]*ProductSales)

	for _, order := range orders {
		for _, item := range order.Items {
			sales, ok := byProduct[item.ProductID]
			if !ok {
				sales = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				byProduct[item.ProductID] = sales
			}
			sales.Quantity += item.Quantity
			sales.Revenue += item.Price * int64(item.Quantity)
		}
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, sales := range byProduct {
		out = append(out, *sales)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].ProductID < out[j].ProductID
	})

	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// StatusCounts — распределение заказов по статусам.
func StatusCounts(orders []domain.Order) map[domain.OrderStatus]int {
	counts := make(map[domain.OrderStatus]int)
	for _, order := range orders {
		counts[order.Status]++
	}
	return counts
}

// WeeklyComparison — выручка текущей и прошлой недели и рост в процентах.
type WeeklyComparison struct {
	ThisWeekOrders  int
	LastWeekOrders  int
	ThisWeekRevenue int64
	LastWeekRevenue int64
	// GrowthPercent равен нулю, когда прошлая неделя пуста.
	GrowthPercent int
}

// CompareWeeks сравнивает последние 7 дней с предыдущими 7.
func CompareWeeks(orders []domain.Order, now time.Time) WeeklyComparison {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekAgo := today.AddDate(0, 0, -7)
	twoWeeksAgo := today.AddDate(0, 0, -14)

	var cmp WeeklyComparison
	for _, order := range orders {
		created := order.CreatedAt.In(loc)
		switch {
		case !created.Before(weekAgo):
			cmp.ThisWeekOrders++
			cmp.ThisWeekRevenue += order.Total
		case !created.Before(twoWeeksAgo):
			cmp.LastWeekOrders++
			cmp.LastWeekRevenue += order.Total
		}
	}

	if cmp.LastWeekRevenue > 0 {
		diff := cmp.ThisWeekRevenue - cmp.LastWeekRevenue
		cmp.GrowthPercent = int(float64(diff) / float64(cmp.LastWeekRevenue) * 100)
	}
	return cmp
}
