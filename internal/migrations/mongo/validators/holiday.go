package validators

import "go.mongodb.org/mongo-driver/bson"

var weekdayStringMap = bson.M{
	"bsonType": "object",
	"additionalProperties": bson.M{
		"bsonType":  "string",
		"maxLength": 50,
	},
}

var weekdayBoolMap = bson.M{
	"bsonType":             "object",
	"additionalProperties": bson.M{"bsonType": "bool"},
}

var isoDateMap = bson.M{
	"bsonType": "object",
	"additionalProperties": bson.M{
		"bsonType": "string",
		"pattern":  `^(\d{4}-\d{2}-\d{2})?$`,
	},
}

var HolidayScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"type",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"christmas", "newyear", "easter", "other"},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"hours":  weekdayStringMap,
			"closed": weekdayBoolMap,
			"dates":  isoDateMap,

			"closure_notices": bson.M{
				"bsonType": "array",
				"maxItems": 50,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id"},
					"properties": bson.M{
						"id":   bson.M{"bsonType": "string"},
						"from": bson.M{"bsonType": "string"},
						"to":   bson.M{"bsonType": "string"},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
