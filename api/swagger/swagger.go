package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gerenciamento de Alocacao API",
        "description": "Rooms, classes, time-slots and automatic room allocation",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Salas", "description": "Room inventory"},
        {"name": "Turmas", "description": "Class inventory"},
        {"name": "Alocacoes", "description": "Allocation containers and room membership"},
        {"name": "Horarios", "description": "Time-slots and scheduled classes"},
        {"name": "AlocacaoInteligente", "description": "Allocation runs and their results"},
        {"name": "Dashboard", "description": "Aggregate counters"}
    ],
    "paths": {
        "/salas": {
            "get": {
                "tags": ["Salas"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["ATIVA", "INATIVA", "MANUTENCAO"]},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Salas"],
                "summary": "Create room",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SalaRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Invalid payload"}}
            }
        },
        "/salas/{id}": {
            "get": {
                "tags": ["Salas"],
                "summary": "Get room",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Salas"],
                "summary": "Update room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SalaRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Salas"],
                "summary": "Delete room",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/turmas": {
            "get": {
                "tags": ["Turmas"],
                "summary": "List classes",
                "parameters": [{"name": "search", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Turmas"],
                "summary": "Create class",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TurmaRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Invalid payload"}}
            }
        },
        "/turmas/{id}": {
            "get": {
                "tags": ["Turmas"],
                "summary": "Get class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Turmas"],
                "summary": "Update class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TurmaRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Turmas"],
                "summary": "Delete class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/alocacoes": {
            "get": {
                "tags": ["Alocacoes"],
                "summary": "List allocations with rooms, time-slots and classes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Alocacoes"],
                "summary": "Create allocation",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AlocacaoRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/alocacoes/{id}": {
            "get": {
                "tags": ["Alocacoes"],
                "summary": "Get allocation detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Alocacoes"],
                "summary": "Rename allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AlocacaoRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Alocacoes"],
                "summary": "Delete allocation",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/alocacoes/{id}/salas": {
            "post": {
                "tags": ["Alocacoes"],
                "summary": "Add room to allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSalaRequest"}}
                ],
                "responses": {"201": {"description": "Added"}, "404": {"description": "Not found"}, "409": {"description": "Already a member"}}
            }
        },
        "/alocacoes/{id}/salas/{salaId}": {
            "delete": {
                "tags": ["Alocacoes"],
                "summary": "Remove room from allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "salaId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Removed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/alocacoes/{id}/horarios": {
            "post": {
                "tags": ["Horarios"],
                "summary": "Add time-slot to allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HorarioRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Day and period already used"}}
            }
        },
        "/horarios/{id}": {
            "delete": {
                "tags": ["Horarios"],
                "summary": "Delete time-slot",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/horarios/{id}/clone": {
            "post": {
                "tags": ["Horarios"],
                "summary": "Copy a time-slot and its classes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CloneHorarioRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Day and period already used"}}
            }
        },
        "/horarios/{id}/turmas": {
            "post": {
                "tags": ["Horarios"],
                "summary": "Schedule class in time-slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddTurmaRequest"}}
                ],
                "responses": {"201": {"description": "Scheduled"}, "409": {"description": "Already scheduled"}}
            }
        },
        "/horarios/{id}/turmas/{turmaId}": {
            "delete": {
                "tags": ["Horarios"],
                "summary": "Remove class from time-slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "turmaId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Removed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/alocacao-inteligente/{id}": {
            "post": {
                "tags": ["AlocacaoInteligente"],
                "summary": "Run the allocation for every time-slot",
                "description": "Omitted preference flags default to true.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RunRequest"}}
                ],
                "responses": {"200": {"description": "Run summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/alocacao-inteligente/{id}/async": {
            "post": {
                "tags": ["AlocacaoInteligente"],
                "summary": "Queue an allocation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RunRequest"}}
                ],
                "responses": {"202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "503": {"description": "Queue full"}}
            }
        },
        "/alocacao-inteligente/{id}/resultados": {
            "get": {
                "tags": ["AlocacaoInteligente"],
                "summary": "Stored results of an allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "ultima", "in": "query", "type": "boolean", "description": "Only the latest result per time-slot"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/alocacao-inteligente/{id}/resultados/export": {
            "get": {
                "tags": ["AlocacaoInteligente"],
                "summary": "Download results as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "formato", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "ultima", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}, "400": {"description": "Unsupported format"}}
            }
        },
        "/execucoes/{jobId}": {
            "get": {
                "tags": ["AlocacaoInteligente"],
                "summary": "Status of a queued allocation run",
                "parameters": [{"name": "jobId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Unknown or expired"}}
            }
        },
        "/resultados/{id}": {
            "delete": {
                "tags": ["AlocacaoInteligente"],
                "summary": "Delete a stored result",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Global counters for the dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "SalaRequest": {
            "type": "object",
            "required": ["nome", "capacidade_total"],
            "properties": {
                "nome": {"type": "string"},
                "capacidade_total": {"type": "integer"},
                "localizacao": {"type": "string"},
                "status": {"type": "string", "enum": ["ATIVA", "INATIVA", "MANUTENCAO"]},
                "cadeiras_moveis": {"type": "boolean"},
                "cadeiras_especiais": {"type": "integer"},
                "alocacao_id": {"type": "string"}
            }
        },
        "TurmaRequest": {
            "type": "object",
            "required": ["nome", "alunos"],
            "properties": {
                "nome": {"type": "string"},
                "alunos": {"type": "integer"},
                "duracao_min": {"type": "integer"},
                "esp_necessarias": {"type": "integer"},
                "localizacao_preferida": {"type": "string"}
            }
        },
        "AlocacaoRequest": {
            "type": "object",
            "required": ["nome"],
            "properties": {
                "nome": {"type": "string"},
                "descricao": {"type": "string"}
            }
        },
        "AddSalaRequest": {
            "type": "object",
            "required": ["sala_id"],
            "properties": {"sala_id": {"type": "string"}}
        },
        "HorarioRequest": {
            "type": "object",
            "required": ["dia_semana", "periodo"],
            "properties": {
                "dia_semana": {"type": "string", "enum": ["SEGUNDA", "TERCA", "QUARTA", "QUINTA", "SEXTA", "SABADO"]},
                "periodo": {"type": "string", "enum": ["MATUTINO", "VESPERTINO", "NOTURNO"]}
            }
        },
        "CloneHorarioRequest": {
            "type": "object",
            "required": ["alocacao_id", "dia_semana", "periodo"],
            "properties": {
                "alocacao_id": {"type": "string"},
                "dia_semana": {"type": "string", "enum": ["SEGUNDA", "TERCA", "QUARTA", "QUINTA", "SEXTA", "SABADO"]},
                "periodo": {"type": "string", "enum": ["MATUTINO", "VESPERTINO", "NOTURNO"]}
            }
        },
        "AddTurmaRequest": {
            "type": "object",
            "required": ["turma_id"],
            "properties": {"turma_id": {"type": "string"}}
        },
        "RunRequest": {
            "type": "object",
            "properties": {
                "priorizar_capacidade": {"type": "boolean"},
                "priorizar_especiais": {"type": "boolean"},
                "priorizar_proximidade": {"type": "boolean"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "meta": {"type": "object"}
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
