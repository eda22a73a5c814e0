package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	_ "github.com/go-sql-driver/mysql"               // enable mysql driver
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/dubizzle/goeav/config"
	"github.com/dubizzle/goeav/eav"
	"github.com/dubizzle/goeav/util"
)

var repo *eav.Repository

type AttributeCommand struct {
	List   AttributeListCommand   `command:"list"`
	Create AttributeCreateCommand `command:"create"`
}

type AttributeListCommand struct{}

func (r *AttributeListCommand) Execute(_ []string) error {
	attrs, err := repo.Attributes(context.Background())
	if err != nil {
		return err
	}

	for _, attr := range attrs {
		fmt.Printf(
			"%d\t%s\t%s\t%d\t%s\n",
			attr.ID, attr.Slug, attr.Datatype,
			util.NullInt64ToScalar(attr.EnumGroupID), util.NullStringToString(attr.Description),
		)
	}

	return nil
}

type AttributeCreateCommand struct {
	Name        string `long:"name"          description:"Attribute name"                       required:"yes"`
	Datatype    string `long:"datatype"      description:"Datatype"                             required:"yes"`
	Required    bool   `long:"required"      description:"Mark the attribute required"`
	EnumGroupID int64  `long:"enum-group-id" description:"Enum group for choice datatypes"`
	Order       int32  `long:"order"         description:"Display order"`
}

func (r *AttributeCreateCommand) Execute(_ []string) error {
	attr := eav.Attribute{}
	attr.Name = r.Name
	attr.Datatype = r.Datatype
	attr.Required = r.Required
	attr.DisplayOrder = r.Order

	if r.EnumGroupID > 0 {
		attr.EnumGroupID = sql.NullInt64{Int64: r.EnumGroupID, Valid: true}
	}

	if err := repo.SaveAttribute(context.Background(), &attr); err != nil {
		return err
	}

	logrus.Infof("created attribute `%s` (%d)", attr.Slug, attr.ID)

	return nil
}

type EnumValueCreateCommand struct {
	Value  string `long:"value"  description:"Choice token"  required:"yes"`
	Legacy string `long:"legacy" description:"Legacy alias"`
}

func (r *EnumValueCreateCommand) Execute(_ []string) error {
	id, err := repo.CreateEnumValue(context.Background(), r.Value, r.Legacy)
	if err != nil {
		return err
	}

	logrus.Infof("created enum value `%s` (%d)", r.Value, id)

	return nil
}

type EnumGroupCreateCommand struct {
	Name     string  `long:"name"     description:"Group name"    required:"yes"`
	ValueIDs []int64 `long:"value-id" description:"Member tokens"`
}

func (r *EnumGroupCreateCommand) Execute(_ []string) error {
	ctx := context.Background()

	id, err := repo.CreateEnumGroup(ctx, r.Name)
	if err != nil {
		return err
	}

	if err = repo.AddEnumValuesToGroup(ctx, id, r.ValueIDs...); err != nil {
		return err
	}

	logrus.Infof("created enum group `%s` (%d) with %d values", r.Name, id, len(r.ValueIDs))

	return nil
}

type ValuesTotalCommand struct{}

func (r *ValuesTotalCommand) Execute(_ []string) error {
	total, err := repo.TotalValues(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(total)

	return nil
}

func main() { os.Exit(mainReturnWithCode()) }

func mainReturnWithCode() int {
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig(".")

	config.ValidateConfig(cfg)

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		logrus.Error(err)

		return 1
	}

	defer util.Close(db)

	repo = eav.NewRepository(goqu.New("mysql", db))

	var opts struct {
		Attribute       AttributeCommand       `command:"attribute"`
		EnumValueCreate EnumValueCreateCommand `command:"enum-value-create"`
		EnumGroupCreate EnumGroupCreateCommand `command:"enum-group-create"`
		ValuesTotal     ValuesTotalCommand     `command:"values-total"`
	}

	parser := flags.NewParser(&opts, flags.Default)

	_, err = parser.Parse()
	if err != nil {
		logrus.Error(err)

		return 1
	}

	return 0
}
