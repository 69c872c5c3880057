// Package query переводит параметры строки запроса каталога в фильтр MongoDB
// и вычисляет окно пагинации.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrInvalidFilter значение фильтра не может быть применено
var ErrInvalidFilter = errors.New("invalid filter")

// Параметры, которые никогда не становятся фильтрами по полям
var reservedKeys = map[string]bool{
	"keyword": true,
	"page":    true,
	"limit":   true,
}

// NumericFields поля товара, для которых допустимы операторы диапазона
var NumericFields = map[string]bool{
	"price":        true,
	"cuttedPrice":  true,
	"ratings":      true,
	"discount":     true,
	"stock":        true,
	"numOfReviews": true,
}

// price[gte]=100 -> field=price, op=gte
var rangeKeyPattern = regexp.MustCompile(`^([A-Za-z0-9_.]+)\[(gt|gte|lt|lte)\]$`)

// Translate строит фильтр для коллекции products.
//
//   - keyword: подстрока в name без учета регистра
//   - brand=a,b: принадлежность brand.name множеству
//   - field[gt|gte|lt|lte]=n: диапазон, только для NumericFields
//   - остальные ключи: точное совпадение
//
// Все условия объединяются через AND, ключи результата отсортированы.
// Несколько условий на одно поле сливаются в один документ операторов.
func Translate(params map[string][]string) (bson.D, error) {
	exact := make(map[string]interface{})
	operators := make(map[string]bson.D)
	ranges := make(map[string]bson.D)

	if keyword := strings.TrimSpace(first(params, "keyword")); keyword != "" {
		operators["name"] = bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(keyword)},
			{Key: "$options", Value: "i"},
		}
	}

	for key := range params {
		value := first(params, key)
		if reservedKeys[key] || value == "" {
			continue
		}

		if key == "brand" {
			if brands := splitList(value); len(brands) > 0 {
				operators["brand.name"] = append(operators["brand.name"], bson.E{Key: "$in", Value: brands})
			}
			continue
		}

		if m := rangeKeyPattern.FindStringSubmatch(key); m != nil {
			field, op := m[1], m[2]
			if !NumericFields[field] {
				continue
			}
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidFilter, key)
			}
			ranges[field] = append(ranges[field], bson.E{Key: "$" + op, Value: n})
			continue
		}

		exact[key] = exactValue(key, value)
	}

	seen := make(map[string]bool)
	fields := make([]string, 0, len(exact)+len(operators)+len(ranges))
	for _, group := range []map[string]bson.D{operators, ranges} {
		for field := range group {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
	}
	for field := range exact {
		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	filter := make(bson.D, 0, len(fields))
	for _, field := range fields {
		v, hasExact := exact[field]
		if len(operators[field]) == 0 && len(ranges[field]) == 0 {
			filter = append(filter, bson.E{Key: field, Value: v})
			continue
		}

		var ops bson.D
		if hasExact {
			ops = append(ops, bson.E{Key: "$eq", Value: v})
		}
		ops = append(ops, operators[field]...)

		fieldRanges := ranges[field]
		sort.Slice(fieldRanges, func(i, j int) bool { return fieldRanges[i].Key < fieldRanges[j].Key })
		ops = append(ops, fieldRanges...)

		filter = append(filter, bson.E{Key: field, Value: ops})
	}

	return filter, nil
}

// exactValue для числовых полей приводит значение к числу
func exactValue(field, value string) interface{} {
	if NumericFields[field] {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}

func first(params map[string][]string, key string) string {
	if values := params[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
