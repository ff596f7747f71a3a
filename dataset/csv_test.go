package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `name,age,sex,occupation,national_id,phone,address
Ana,34,F,engineer,123,555-1,"Rua A, 10, Porto Alegre - RS"
Bruno,41,M,teacher,456,555-2,"Av B, 20, Curitiba - PR"
Carla,,F,engineer,789,,"Rua C, 30, Porto Alegre - RS"
`

var sampleSensitive = []string{"name", "national_id", "phone", "address"}

func TestLoad(t *testing.T) {
	ds, err := Load(strings.NewReader(sampleCSV), sampleSensitive)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"name", "age", "sex", "occupation", "national_id", "phone", "address", "city"}, ds.Columns)

	assert.Equal(t, RoleNumeric, ds.Schema["age"])
	assert.Equal(t, RoleCategorical, ds.Schema["sex"])
	assert.Equal(t, RoleCategorical, ds.Schema["occupation"])
	assert.Equal(t, RoleSensitive, ds.Schema["name"])
	assert.Equal(t, RoleSensitive, ds.Schema["address"])
	// national_id parses as a number but the sensitive role must win.
	assert.Equal(t, RoleSensitive, ds.Schema["national_id"])

	assert.Equal(t, Num(34), ds.Records[0]["age"])
	assert.True(t, ds.Records[2]["age"].IsNull())
	assert.True(t, ds.Records[2]["phone"].IsNull())
}

func TestLoadDerivesCity(t *testing.T) {
	ds, err := Load(strings.NewReader(sampleCSV), sampleSensitive)
	require.NoError(t, err)

	assert.Equal(t, RoleCategorical, ds.Schema["city"])
	assert.Equal(t, "Porto Alegre", ds.Records[0]["city"].String())
	assert.Equal(t, "Curitiba", ds.Records[1]["city"].String())
}

func TestLoadKeepsExistingCityColumn(t *testing.T) {
	csv := "name,city,address\nAna,Recife,\"Rua A, 1, Salvador - BA\"\n"
	ds, err := Load(strings.NewReader(csv), []string{"name", "address"})
	require.NoError(t, err)

	// No derived column when the dataset already ships one.
	assert.Equal(t, []string{"name", "city", "address"}, ds.Columns)
	assert.Equal(t, "Recife", ds.Records[0]["city"].String())
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Load(strings.NewReader("name,age\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoadNormalizesHeaders(t *testing.T) {
	csv := "Name, AGE\nAna,30\n"
	ds, err := Load(strings.NewReader(csv), []string{"NAME"})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, ds.Columns)
	assert.Equal(t, RoleSensitive, ds.Schema["name"])
	assert.Equal(t, RoleNumeric, ds.Schema["age"])
}

func TestLoadDuplicateColumn(t *testing.T) {
	csv := "name,Name\nAna,Ana\n"
	_, err := Load(strings.NewReader(csv), nil)
	assert.ErrorContains(t, err, "duplicate column")
}

func TestLoadMixedColumnIsCategorical(t *testing.T) {
	csv := "code\n12\nabc\n"
	ds, err := Load(strings.NewReader(csv), nil)
	require.NoError(t, err)
	assert.Equal(t, RoleCategorical, ds.Schema["code"])
}

func TestSchemaColumnSets(t *testing.T) {
	ds, err := Load(strings.NewReader(sampleCSV), sampleSensitive)
	require.NoError(t, err)

	assert.Equal(t, []string{"age"}, ds.Schema.NumericColumns())
	assert.Equal(t, []string{"city", "occupation", "sex"}, ds.Schema.CategoricalColumns())
	assert.Equal(t, []string{"address", "name", "national_id", "phone"}, ds.Schema.SensitiveColumns())
}
