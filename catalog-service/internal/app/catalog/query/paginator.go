package query

import (
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultPerPage фиксированный размер страницы каталога
const ResultPerPage = 12

const maxPage = math.MaxInt64/ResultPerPage + 1

// Page номер страницы, начиная с 1
type Page int

// PageFromParams читает параметр page; отсутствующее, нечисловое или < 1 значение дает 1
func PageFromParams(params map[string][]string) Page {
	n, err := strconv.ParseInt(first(params, "page"), 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	if n > maxPage {
		return Page(maxPage)
	}
	return Page(n)
}

// Skip количество пропускаемых документов
func (p Page) Skip() int64 {
	return ResultPerPage * (int64(p) - 1)
}

// Limit размер окна
func (p Page) Limit() int64 {
	return ResultPerPage
}

// SortOrder порядок выдачи: новые товары первыми, _id разрешает равенство createdAt
var SortOrder = bson.D{
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: 1},
}

// FindOptions опции запроса окна страницы
func (p Page) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(SortOrder).
		SetSkip(p.Skip()).
		SetLimit(p.Limit())
}
