package swagger

import "github.com/swaggo/swag"

// docTemplate documents the routes mounted under the API prefix. Health,
// readiness, Prometheus and the /join invite link live outside it.
const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduPlatform API",
        "description": "Classroom backend: classes, memberships, invitations, announcements and coursework.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Bearer <token>; the token cookie is accepted as well"
        }
    },
    "tags": [
        {
            "name": "Users",
            "description": "Accounts and sign-in"
        },
        {
            "name": "Classes",
            "description": "Class registry"
        },
        {
            "name": "Memberships",
            "description": "Joining, roles and invitations"
        },
        {
            "name": "Stream",
            "description": "Announcements and discussions"
        },
        {
            "name": "Content",
            "description": "Assignments, materials and quizzes"
        },
        {
            "name": "Operations",
            "description": "Runtime metrics"
        }
    ],
    "paths": {
        "/generate-kode-kelas": {
            "get": {
                "tags": [
                    "Classes"
                ],
                "summary": "Generate an unused class code",
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "Code generated",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "503": {
                        "description": "Code space exhausted",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                }
            }
        },
        "/users/register": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Register an account",
                "parameters": [
                    {
                        "name": "nama",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "email",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "password",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "peran",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "GURU or SISWA"
                    },
                    {
                        "name": "jenjang",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "instansi",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "profile",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Registered",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input or duplicate email",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                }
            }
        },
        "/users/login": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Sign in and receive a token cookie",
                "parameters": [
                    {
                        "name": "email",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "password",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "remember",
                        "in": "query",
                        "type": "boolean",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Wrong password",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Unknown email",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                }
            }
        },
        "/users/search": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Look up users by email fragment",
                "parameters": [
                    {
                        "name": "email",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/kelas/search": {
            "get": {
                "tags": [
                    "Classes"
                ],
                "summary": "Find classes by code",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Classes found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Missing code",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                }
            }
        },
        "/kelas/create": {
            "get": {
                "tags": [
                    "Classes"
                ],
                "summary": "Create a class",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "nama",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "desk",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input or duplicate name",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Teachers only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/kelas/join": {
            "get": {
                "tags": [
                    "Memberships"
                ],
                "summary": "Join a class by code",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Joined",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Already a member",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/kelas/action": {
            "get": {
                "tags": [
                    "Classes"
                ],
                "summary": "Edit, archive, restore or leave a class",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "action",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "edit, arsip, pulihkan, delete_guru or delete_siswa"
                    },
                    {
                        "name": "nama",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "desk",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "owner",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Applied",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Not allowed",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/kelas/list": {
            "get": {
                "tags": [
                    "Memberships"
                ],
                "summary": "List the caller's classes",
                "parameters": [
                    {
                        "name": "arsip",
                        "in": "query",
                        "type": "boolean",
                        "required": false,
                        "description": "true lists archived classes"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/kelas/invite": {
            "get": {
                "tags": [
                    "Memberships"
                ],
                "summary": "Invite a user to a class by email",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "email",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Invitation queued",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Advisors only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/kelas/export": {
            "get": {
                "tags": [
                    "Classes"
                ],
                "summary": "Download the class roster",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "csv or pdf"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Roster file",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Advisors only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/daftar-kelas": {
            "get": {
                "tags": [
                    "Memberships"
                ],
                "summary": "Summarize a user's classes",
                "parameters": [
                    {
                        "name": "email",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "defaults to the caller"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/anggota/status": {
            "get": {
                "tags": [
                    "Memberships"
                ],
                "summary": "Promote, demote or remove a member",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "owner",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "email of the member"
                    },
                    {
                        "name": "action",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "upgrade, downgrade or delete"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Applied",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Advisors only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Member not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/pengumuman": {
            "get": {
                "tags": [
                    "Stream"
                ],
                "summary": "List announcements of classes",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "comma separated class codes"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/pengumuman/create": {
            "post": {
                "tags": [
                    "Stream"
                ],
                "summary": "Post an announcement",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "pengumuman",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Members only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/x-www-form-urlencoded",
                    "application/json"
                ]
            }
        },
        "/diskusi": {
            "get": {
                "tags": [
                    "Stream"
                ],
                "summary": "Read the discussion thread of a class",
                "parameters": [
                    {
                        "name": "id",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "class code"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/diskusi/send": {
            "get": {
                "tags": [
                    "Stream"
                ],
                "summary": "Post to the discussion thread of a class",
                "parameters": [
                    {
                        "name": "kode",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "class code"
                    },
                    {
                        "name": "pesan",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Sent",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Members only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/tugas": {
            "get": {
                "tags": [
                    "Content"
                ],
                "summary": "List assignments of classes",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "comma separated class codes"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/tugas/create": {
            "post": {
                "tags": [
                    "Content"
                ],
                "summary": "Upload an assignment",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "nama",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "deskripsi",
                        "in": "formData",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "deadline",
                        "in": "formData",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "content",
                        "in": "formData",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Advisors only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/x-www-form-urlencoded",
                    "application/json"
                ]
            }
        },
        "/materi/create": {
            "post": {
                "tags": [
                    "Content"
                ],
                "summary": "Upload a material link",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "nama",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "option",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "content",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Advisors only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/x-www-form-urlencoded",
                    "application/json"
                ]
            }
        },
        "/quiz/create": {
            "post": {
                "tags": [
                    "Content"
                ],
                "summary": "Upload a quiz link",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "nama",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "option",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "content",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "403": {
                        "description": "Advisors only",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/x-www-form-urlencoded",
                    "application/json"
                ]
            }
        },
        "/data-kelas": {
            "get": {
                "tags": [
                    "Content"
                ],
                "summary": "Class feed of announcements, assignments and materials",
                "parameters": [
                    {
                        "name": "kodeKelas",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    },
                    "401": {
                        "description": "Not signed in",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/metrics/snapshot": {
            "get": {
                "tags": [
                    "Operations"
                ],
                "summary": "Request metrics snapshot",
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "Snapshot",
                        "schema": {
                            "$ref": "#/definitions/Envelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "description": "success, error, duplicate, not found or wrong password"
                },
                "message": {
                    "type": "string"
                },
                "data": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
