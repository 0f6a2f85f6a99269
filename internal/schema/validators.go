package schema

import "go.mongodb.org/mongo-driver/bson"

var userSchema = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"username", "email", "password", "role", "createdAt"},
		"properties": bson.M{
			"username": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 30,
			},
			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
			},
			"password": bson.M{
				"bsonType": "string",
			},
			"role": bson.M{
				"enum": []string{"admin", "author", "reader"},
			},
			"profile": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"firstName": bson.M{"bsonType": "string"},
					"lastName":  bson.M{"bsonType": "string"},
					"bio":       bson.M{"bsonType": "string", "maxLength": 500},
					"avatarUrl": bson.M{"bsonType": "string"},
				},
			},
			"notifications": bson.M{
				"bsonType": "array",
			},
			"createdAt": bson.M{"bsonType": "date"},
			"lastLogin": bson.M{"bsonType": bson.A{"date", "null"}},
		},
	},
}

var postSchema = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"title", "content", "authorId", "status", "createdAt"},
		"properties": bson.M{
			"title": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 200,
			},
			"content": bson.M{
				"bsonType":  "string",
				"minLength": 50,
			},
			"authorId":   bson.M{"bsonType": "objectId"},
			"categoryId": bson.M{"bsonType": bson.A{"objectId", "null"}},
			"tags": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},
			"status": bson.M{
				"enum": []string{"draft", "published", "archived"},
			},
			"rating": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"likes":    bson.M{"bsonType": "int", "minimum": 0},
					"dislikes": bson.M{"bsonType": "int", "minimum": 0},
					"users":    bson.M{"bsonType": "array"},
				},
			},
			"views":    bson.M{"bsonType": "int", "minimum": 0},
			"comments": bson.M{"bsonType": "array"},
			"versions": bson.M{"bsonType": "array"},
			"location": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"type":        bson.M{"enum": []string{"Point"}},
					"coordinates": bson.M{"bsonType": "array"},
				},
			},
			"createdAt":   bson.M{"bsonType": "date"},
			"updatedAt":   bson.M{"bsonType": "date"},
			"publishedAt": bson.M{"bsonType": bson.A{"date", "null"}},
		},
	},
}

var categorySchema = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name", "slug"},
		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},
			"slug": bson.M{
				"bsonType": "string",
				"pattern":  "^[a-z0-9]+(?:-[a-z0-9]+)*$",
			},
			"description": bson.M{"bsonType": "string", "maxLength": 500},
			"postCount":   bson.M{"bsonType": "int", "minimum": 0},
		},
	},
}
