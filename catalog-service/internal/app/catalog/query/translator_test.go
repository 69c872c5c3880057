package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func parse(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestTranslate_Empty(t *testing.T) {
	filter, err := Translate(url.Values{})

	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestTranslate_KeywordIsCaseInsensitiveSubstring(t *testing.T) {
	filter, err := Translate(parse(t, "keyword=phone"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "name", Value: bson.D{{Key: "$regex", Value: "phone"}, {Key: "$options", Value: "i"}}},
	}, filter)
}

func TestTranslate_KeywordIsQuoted(t *testing.T) {
	filter, err := Translate(parse(t, "keyword=a.b%2B"))

	require.NoError(t, err)
	assert.Equal(t, `a\.b\+`, filter[0].Value.(bson.D)[0].Value)
}

func TestTranslate_ReservedKeysAreNotFilters(t *testing.T) {
	filter, err := Translate(parse(t, "page=3&limit=50&category=Mobiles"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "category", Value: "Mobiles"}}, filter)
}

func TestTranslate_PriceRange(t *testing.T) {
	filter, err := Translate(parse(t, "price[gte]=100&price[lte]=500"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "price", Value: bson.D{{Key: "$gte", Value: 100.0}, {Key: "$lte", Value: 500.0}}},
	}, filter)
}

func TestTranslate_RangeOnNonNumericFieldIsIgnored(t *testing.T) {
	filter, err := Translate(parse(t, "name[gt]=abc&category[lt]=z"))

	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestTranslate_NonNumericRangeOperand(t *testing.T) {
	_, err := Translate(parse(t, "ratings[gte]=high"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestTranslate_StringValuesAreNeverRewritten(t *testing.T) {
	filter, err := Translate(parse(t, "category=gte-gadgets"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "category", Value: "gte-gadgets"}}, filter)
}

func TestTranslate_BrandSetMembership(t *testing.T) {
	filter, err := Translate(parse(t, "brand=Apple,%20Samsung,,Nokia"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "brand.name", Value: bson.D{{Key: "$in", Value: []string{"Apple", "Samsung", "Nokia"}}}},
	}, filter)
}

func TestTranslate_NumericExactMatchIsConverted(t *testing.T) {
	filter, err := Translate(parse(t, "ratings=4"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "ratings", Value: 4.0}}, filter)
}

func TestTranslate_UnknownFieldPassesThrough(t *testing.T) {
	filter, err := Translate(parse(t, "colour=red"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "colour", Value: "red"}}, filter)
}

func TestTranslate_CombinedIsSortedAndConjunctive(t *testing.T) {
	filter, err := Translate(parse(t, "keyword=pro&category=Laptops&price[gt]=1000&brand=Dell&page=2"))

	require.NoError(t, err)
	require.Len(t, filter, 4)
	assert.Equal(t, "brand.name", filter[0].Key)
	assert.Equal(t, "category", filter[1].Key)
	assert.Equal(t, "name", filter[2].Key)
	assert.Equal(t, "price", filter[3].Key)
	assert.Equal(t, bson.D{{Key: "$gt", Value: 1000.0}}, filter[3].Value)
}

func TestTranslate_ExactAndRangeOnSameField(t *testing.T) {
	filter, err := Translate(parse(t, "stock=5&stock[lte]=10"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "stock", Value: bson.D{{Key: "$eq", Value: 5.0}, {Key: "$lte", Value: 10.0}}},
	}, filter)
}

func TestTranslate_KeywordAndExactNameAreBothKept(t *testing.T) {
	filter, err := Translate(parse(t, "keyword=phone&name=Pixel"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "name", Value: bson.D{
			{Key: "$eq", Value: "Pixel"},
			{Key: "$regex", Value: "phone"},
			{Key: "$options", Value: "i"},
		}},
	}, filter)
}

func TestTranslate_BrandAndLiteralBrandNameAreBothKept(t *testing.T) {
	filter, err := Translate(parse(t, "brand=Apple,Nokia&brand.name=Apple"))

	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "brand.name", Value: bson.D{
			{Key: "$eq", Value: "Apple"},
			{Key: "$in", Value: []string{"Apple", "Nokia"}},
		}},
	}, filter)
}
