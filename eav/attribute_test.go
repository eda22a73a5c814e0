package eav

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dubizzle/goeav/schema"
)

func TestSaveAttributeDerivesSlug(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	suffix := uuid.New().String()

	attr := Attribute{}
	attr.Name = "Fav Drink! " + suffix
	attr.Datatype = string(TypeText)

	require.NoError(t, s.SaveAttribute(context.Background(), &attr))
	require.Equal(t, Slugify(attr.Name), attr.Slug)
	require.NotZero(t, attr.ID)

	found, loaded, err := s.AttributeBySlug(context.Background(), attr.Slug)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, attr.ID, loaded.ID)
}

func TestChoiceAttributeRequiresEnumGroup(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	for _, datatype := range []Datatype{TypeEnum, TypeEnumMulti} {
		attr := Attribute{}
		attr.Name = "attr " + uuid.New().String()
		attr.Datatype = string(datatype)

		err := s.SaveAttribute(context.Background(), &attr)

		var vErr ValidationError
		require.ErrorAs(t, err, &vErr)
	}
}

func TestNonChoiceAttributeForbidsEnumGroup(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	groupID, _ := createEnumGroup(t, s, 1)

	attr := Attribute{}
	attr.Name = "attr " + uuid.New().String()
	attr.Datatype = string(TypeText)
	attr.EnumGroupID = sql.NullInt64{Int64: groupID, Valid: true}

	err := s.SaveAttribute(context.Background(), &attr)

	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestDatatypeChangeBlockedWhileValuesExist(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entity := testEntity()

	require.NoError(t, s.SaveValue(ctx, &attr, entity, "anything"))

	attr.Datatype = string(TypeInt)

	err := s.SaveAttribute(ctx, &attr)
	require.ErrorIs(t, err, ErrDatatypeChange)
}

func TestDeleteAttributeIsProtected(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entity := testEntity()

	require.NoError(t, s.SaveValue(ctx, &attr, entity, "anything"))

	err := s.DeleteAttribute(ctx, attr.ID)
	require.ErrorIs(t, err, ErrAttributeHasValues)

	require.NoError(t, s.SaveValue(ctx, &attr, entity, nil))
	require.NoError(t, s.DeleteAttribute(ctx, attr.ID))
}

func TestChoices(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	groupID, values := createEnumGroup(t, s, 3)
	choiceAttr := createChoiceAttribute(t, s, TypeEnum, groupID)
	textAttr := createAttribute(t, s, TypeText)

	rows, applicable, err := s.Choices(ctx, &choiceAttr)
	require.NoError(t, err)
	require.True(t, applicable)
	require.Len(t, rows, len(values))

	_, applicable, err = s.Choices(ctx, &textAttr)
	require.NoError(t, err)
	require.False(t, applicable)
}

// Membership validation over randomly generated groups: every member (in
// either token or string form) validates, non-members fail, and duplicates
// in a multi-choice collection are caught by the collapsed member count.
func TestValidateValueEnumMembership(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		groupID, values := createEnumGroup(t, s, 4)
		single := createChoiceAttribute(t, s, TypeEnum, groupID)
		multi := createChoiceAttribute(t, s, TypeEnumMulti, groupID)

		for _, value := range values {
			require.NoError(t, s.ValidateValue(ctx, &single, value))

			row, err := s.EnumValueByValue(ctx, value)
			require.NoError(t, err)
			require.NoError(t, s.ValidateValue(ctx, &single, &row))
		}

		outsider := uuid.New().String()
		require.Error(t, s.ValidateValue(ctx, &single, outsider))

		require.NoError(t, s.ValidateValue(ctx, &multi, values))
		require.NoError(t, s.ValidateValue(ctx, &multi, values[:2]))

		require.Error(t, s.ValidateValue(ctx, &multi, append([]string{outsider}, values[0])))
		require.Error(t, s.ValidateValue(ctx, &multi, []string{values[0], values[0]}))
	}
}

func TestValidateValueDatatypeMismatch(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeInt)

	err := s.ValidateValue(ctx, &attr, "not a number")

	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, attr.Slug, vErr.Attr)

	require.NoError(t, s.ValidateValue(ctx, &attr, 42))
}

func TestSaveValueEmptyIsIdempotentDelete(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entity := testEntity()

	// no row exists: a no-op
	require.NoError(t, s.SaveValue(ctx, &attr, entity, nil))

	require.NoError(t, s.SaveValue(ctx, &attr, entity, "red bull"))

	found, _, err := s.Value(ctx, entity, attr.ID)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, s.SaveValue(ctx, &attr, entity, ""))

	found, _, err = s.Value(ctx, entity, attr.ID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSaveValueUpdatesInsteadOfDuplicating(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	attr := createAttribute(t, s, TypeText)
	entity := testEntity()

	require.NoError(t, s.SaveValue(ctx, &attr, entity, "first"))
	require.NoError(t, s.SaveValue(ctx, &attr, entity, "second"))

	values, err := s.Values(ctx, entity)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, "second", values[0].Value)
}

func TestSaveMultiValueReplacesSet(t *testing.T) {
	t.Parallel()

	s := createRepository(t)

	ctx := context.Background()

	groupID, values := createEnumGroup(t, s, 3)
	attr := createChoiceAttribute(t, s, TypeEnumMulti, groupID)
	entity := testEntity()

	first, err := s.EnumValueByValue(ctx, values[0])
	require.NoError(t, err)
	second, err := s.EnumValueByValue(ctx, values[1])
	require.NoError(t, err)
	third, err := s.EnumValueByValue(ctx, values[2])
	require.NoError(t, err)

	require.NoError(t, s.SaveValue(ctx, &attr, entity, []schema.EnumValueRow{first, second}))

	// full replace, not a merge
	require.NoError(t, s.SaveValue(ctx, &attr, entity, []schema.EnumValueRow{third}))

	stored, err := s.Values(ctx, entity)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	rows, ok := stored[0].Value.([]*schema.EnumValueRow)
	require.True(t, ok)
	require.Len(t, rows, 1)
	require.Equal(t, third.ID, rows[0].ID)
}
