package domain

// Activity log labels
const (
	ActionClientCreated      = "Cliente creado"
	ActionClientUpdated      = "Cliente actualizado"
	ActionClientDeleted      = "Cliente eliminado"
	ActionContactCreated     = "Contacto creado"
	ActionProjectCreated     = "Proyecto creado"
	ActionProjectUpdated     = "Proyecto actualizado"
	ActionProjectDeleted     = "Proyecto eliminado"
	ActionTaskCreated        = "Tarea creada"
	ActionTaskUpdated        = "Tarea actualizada"
	ActionTaskCompleted      = "Tarea completada"
	ActionTaskReopened       = "Tarea marcada como pendiente"
	ActionTaskDeleted        = "Tarea eliminada"
	ActionTaskAssignmentSent = "Asignación enviada"
	ActionSaleRecorded       = "Venta registrada"
	ActionSaleUpdated        = "Venta actualizada"
	ActionSaleDeleted        = "Venta eliminada"
	ActionDocumentUploaded   = "Documento subido"
	ActionDocumentDeleted    = "Documento eliminado"
	ActionEventCreated       = "Evento creado"
	ActionEventDeleted       = "Evento eliminado"
)
