package validators

import "go.mongodb.org/mongo-driver/bson"

var LegacyScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"enabled",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"enum":     []string{"christmas"},
			},

			"enabled": bson.M{
				"bsonType": "bool",
			},

			"start_date": bson.M{
				"bsonType": "string",
				"pattern":  `^(\d{4}-\d{2}-\d{2})?$`,
			},

			"end_date": bson.M{
				"bsonType": "string",
				"pattern":  `^(\d{4}-\d{2}-\d{2})?$`,
			},

			"hours":  weekdayStringMap,
			"closed": weekdayBoolMap,
			"dates":  isoDateMap,

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
