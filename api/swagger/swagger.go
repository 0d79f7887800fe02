package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Zen Ops Console API",
        "description": "Session-aware gateway in front of the Zen Ops valuation backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {
            "name": "Authentication",
            "description": "Console login and session"
        },
        {
            "name": "Lists",
            "description": "Stateful assignment tables"
        },
        {
            "name": "Assignments",
            "description": "Assignment forms"
        },
        {
            "name": "Master Data",
            "description": "Banks, branches, clients and property types"
        },
        {
            "name": "Users",
            "description": "Staff account administration"
        },
        {
            "name": "Dashboard",
            "description": "Account, workload and admin pages"
        },
        {
            "name": "Shell",
            "description": "Layout chrome"
        },
        {
            "name": "System",
            "description": "Probes and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Readiness of the backend API and session store",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Not ready"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/console/auth/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Log in to the console",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "429": {
                        "description": "Too many attempts",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/auth/logout": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Log out",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/console/auth/session": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Current console session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Not logged in",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/auth/me": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Backend profile of the logged-in user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/auth/capabilities": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Resolved capability flags",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/auth/change-password": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Change own password",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ChangePasswordRequest"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/shell": {
            "get": {
                "tags": [
                    "Shell"
                ],
                "summary": "Sidebar and user badge",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/account": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Account page",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/dashboard": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Admin dashboard",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/home": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Home dashboard aggregates",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/banks/{id}/overview": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Bank overview with soft-fail summaries",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/workload": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Global workload counts",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Backend failure",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/lists": {
            "get": {
                "tags": [
                    "Lists"
                ],
                "summary": "Current state of an assignments table",
                "parameters": [
                    {
                        "name": "scope",
                        "in": "query",
                        "type": "string",
                        "description": "all, bank or branch"
                    },
                    {
                        "name": "id",
                        "in": "query",
                        "type": "integer",
                        "description": "Bank or branch id"
                    },
                    {
                        "name": "wait_ms",
                        "in": "query",
                        "type": "integer",
                        "description": "Milliseconds to wait for fetches"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/lists/actions": {
            "post": {
                "tags": [
                    "Lists"
                ],
                "summary": "Apply a table interaction",
                "parameters": [
                    {
                        "name": "scope",
                        "in": "query",
                        "type": "string",
                        "description": "all, bank or branch"
                    },
                    {
                        "name": "id",
                        "in": "query",
                        "type": "integer",
                        "description": "Bank or branch id"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ListActionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/lists/export": {
            "get": {
                "tags": [
                    "Lists"
                ],
                "summary": "Export the visible page of a table",
                "parameters": [
                    {
                        "name": "scope",
                        "in": "query",
                        "type": "string",
                        "description": "all, bank or branch"
                    },
                    {
                        "name": "id",
                        "in": "query",
                        "type": "integer",
                        "description": "Bank or branch id"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "description": "csv, pdf or xlsx"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ]
            }
        },
        "/console/assignments": {
            "post": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Create an assignment",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AssignmentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/assignments/{id}/activity": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Assignment activity timeline",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/assignments/{id}": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Assignment with its attached files",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "patch": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Edit an assignment",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AssignmentEdit"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/banks": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "List banks",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Create bank",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BankRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/banks/{id}": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Bank with its branches",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "patch": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Update bank",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BankUpdateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/branches": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "List branches",
                "parameters": [
                    {
                        "name": "bank_id",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Create branch",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BranchRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/branches/{id}": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Get branch",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "patch": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Update branch",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BranchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/clients": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "List clients",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Create client",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ClientRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/property-types": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "List property types",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Create property type",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/NamedRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/search": {
            "get": {
                "tags": [
                    "Master Data"
                ],
                "summary": "Fuzzy master-data lookup",
                "parameters": [
                    {
                        "name": "kind",
                        "in": "query",
                        "type": "string",
                        "description": "banks, branches, clients or property-types"
                    },
                    {
                        "name": "q",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "bank_id",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/system/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Gateway metrics summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/users": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "List users",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Create user",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateUserRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/users/{id}": {
            "patch": {
                "tags": [
                    "Users"
                ],
                "summary": "Rename user or change role",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateUserRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/users/{id}/toggle-active": {
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Activate or deactivate user",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ToggleActiveRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/console/users/{id}/reset-password": {
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Reset another user's password",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ResetPasswordRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "current_password": {
                    "type": "string"
                },
                "new_password": {
                    "type": "string"
                },
                "confirm_password": {
                    "type": "string"
                }
            },
            "required": [
                "current_password",
                "new_password",
                "confirm_password"
            ]
        },
        "ListActionRequest": {
            "type": "object",
            "properties": {
                "action": {
                    "type": "string",
                    "enum": [
                        "sort",
                        "next",
                        "prev",
                        "filters",
                        "page_size",
                        "refresh",
                        "compact"
                    ]
                },
                "sort_by": {
                    "type": "string"
                },
                "created_from": {
                    "type": "string"
                },
                "created_to": {
                    "type": "string"
                },
                "completion": {
                    "type": "string",
                    "enum": [
                        "ALL",
                        "PENDING",
                        "COMPLETED"
                    ]
                },
                "payment": {
                    "type": "string",
                    "enum": [
                        "ALL",
                        "PAID",
                        "UNPAID"
                    ]
                },
                "page_size": {
                    "type": "integer"
                },
                "compact": {
                    "type": "boolean"
                }
            },
            "required": [
                "action"
            ]
        },
        "AssignmentRequest": {
            "type": "object",
            "properties": {
                "case_type": {
                    "type": "string",
                    "enum": [
                        "BANK",
                        "EXTERNAL_VALUER",
                        "DIRECT_CLIENT"
                    ]
                },
                "bank_id": {
                    "type": "integer"
                },
                "branch_id": {
                    "type": "integer"
                },
                "client_id": {
                    "type": "integer"
                },
                "property_type_id": {
                    "type": "integer"
                },
                "valuer_client_name": {
                    "type": "string"
                },
                "borrower_name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "land_area": {
                    "type": "number"
                },
                "builtup_area": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                },
                "assigned_to": {
                    "type": "string"
                },
                "site_visit_date": {
                    "type": "string"
                },
                "report_due_date": {
                    "type": "string"
                },
                "fees": {
                    "type": "integer"
                },
                "is_paid": {
                    "type": "boolean"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "case_type"
            ]
        },
        "AssignmentEdit": {
            "type": "object",
            "properties": {
                "case_type": {
                    "type": "string"
                },
                "bank_id": {
                    "type": "integer"
                },
                "branch_id": {
                    "type": "integer"
                },
                "client_id": {
                    "type": "integer"
                },
                "property_type_id": {
                    "type": "integer"
                },
                "valuer_client_name": {
                    "type": "string"
                },
                "borrower_name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "land_area": {
                    "type": "number"
                },
                "builtup_area": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                },
                "assigned_to": {
                    "type": "string"
                },
                "site_visit_date": {
                    "type": "string"
                },
                "report_due_date": {
                    "type": "string"
                },
                "fees": {
                    "type": "integer"
                },
                "is_paid": {
                    "type": "boolean"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "BankRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "BranchRequest": {
            "type": "object",
            "properties": {
                "bank_id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "expected_frequency_days": {
                    "type": "integer"
                },
                "expected_weekly_revenue": {
                    "type": "number"
                },
                "address": {
                    "type": "string"
                }
            },
            "required": [
                "bank_id",
                "name"
            ]
        },
        "NamedRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "full_name": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "ToggleActiveRequest": {
            "type": "object",
            "properties": {
                "is_active": {
                    "type": "boolean"
                }
            },
            "required": [
                "is_active"
            ]
        },
        "ResetPasswordRequest": {
            "type": "object",
            "properties": {
                "new_password": {
                    "type": "string"
                }
            },
            "required": [
                "new_password"
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "BankUpdateRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "account_name": {
                    "type": "string"
                },
                "account_number": {
                    "type": "string"
                },
                "ifsc": {
                    "type": "string"
                },
                "account_bank_name": {
                    "type": "string"
                },
                "account_branch_name": {
                    "type": "string"
                },
                "upi_id": {
                    "type": "string"
                },
                "invoice_notes": {
                    "type": "string"
                }
            }
        },
        "ClientRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
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
