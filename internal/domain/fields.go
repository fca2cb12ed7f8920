package domain

// Collection names in the document store
const (
	CollectionClients    = "clientes"
	CollectionContacts   = "contactos"
	CollectionProjects   = "proyectos"
	CollectionTasks      = "tareas"
	CollectionSales      = "ventas"
	CollectionDocuments  = "documentos"
	CollectionEvents     = "eventos"
	CollectionActivities = "actividades"
)

// Document field names. They match the documents already stored by the web client.
const (
	FieldOwnerID      = "usuarioId"
	FieldEventOwnerID = "userId"
	FieldCreatedAt    = "fechaCreacion"
	FieldUpdatedAt    = "fechaActualizacion"

	FieldName        = "nombre"
	FieldLastName    = "apellido"
	FieldEmail       = "email"
	FieldPhone       = "telefono"
	FieldCompany     = "empresa"
	FieldPosition    = "puesto"
	FieldProjectName = "proyecto"
	FieldClientID    = "clienteId"
	FieldContactID   = "contactoId"
	FieldProjectID   = "proyectoId"
	FieldDescription = "descripcion"

	FieldStartDate      = "fechaInicio"
	FieldDeliveryDate   = "fechaEntrega"
	FieldEndDate        = "fechaFin"
	FieldOperatingCost  = "costoOperacion"
	FieldProductionCost = "costoProduccion"
	FieldTotalAmount    = "montoTotal"
	FieldProfitMargin   = "margenGanancia"
	FieldStatus         = "estado"

	FieldTitle             = "titulo"
	FieldDueDate           = "fechaVencimiento"
	FieldCompleted         = "completada"
	FieldAssignment        = "asignacion"
	FieldAssignmentMethod  = "asignacion.metodo"
	FieldAssignmentContact = "asignacion.contacto"
	FieldAssignmentSent    = "asignacion.enviado"
	FieldAssignmentSentAt  = "asignacion.fechaEnvio"
	FieldAssignedTo        = "asignadoA"

	FieldAmount  = "monto"
	FieldComment = "comentario"
	FieldMonth   = "mes"
	FieldDate    = "fecha"

	FieldContentType = "tipo"
	FieldSize        = "tamano"
	FieldStoragePath = "ruta"

	FieldAllDay    = "todoElDia"
	FieldEventType = "tipo"

	FieldAction  = "accion"
	FieldDetails = "detalles"
	FieldRead    = "leida"
)
