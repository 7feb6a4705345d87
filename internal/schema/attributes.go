// Package schema discovers which optional attributes the record store
// currently carries, so that queries never reference a column that a given
// deployment does not have.
package schema

// Attribute is the logical name of a record attribute. The physical column
// behind it is resolved through an Entity's column mapping.
type Attribute string

// Student record attributes.
const (
	AttrID         Attribute = "id"
	AttrDepartment Attribute = "department"
	AttrStage      Attribute = "stage"

	AttrSemester       Attribute = "semester"
	AttrGender         Attribute = "gender"
	AttrStatus         Attribute = "status"
	AttrAdmissionType  Attribute = "admission_type"
	AttrStudyType      Attribute = "study_type"
	AttrAcademicYear   Attribute = "academic_year"
	AttrPaymentStatus  Attribute = "payment_status"
	AttrPhone          Attribute = "phone"
	AttrEmergencyPhone Attribute = "emergency_phone"
	AttrFullNameAr     Attribute = "full_name_ar"
	AttrFullNameEn     Attribute = "full_name_en"
	AttrFirstName      Attribute = "first_name"
	AttrLastName       Attribute = "last_name"

	// Pending-registration markers used by the new-students audience.
	AttrRegistrationStatus Attribute = "registration_status"
	AttrIsRegistered       Attribute = "is_registered"
	AttrRegisteredAt       Attribute = "registered_at"
)

// Delivery record attributes.
const (
	AttrCampaignID     Attribute = "campaign_id"
	AttrDeliveryStatus Attribute = "delivery_status"
	AttrProvider       Attribute = "provider"
	AttrErrorCode      Attribute = "error_code"
)

// StudentOptional is the fixed probe list for student records.
var StudentOptional = []Attribute{
	AttrSemester,
	AttrGender,
	AttrStatus,
	AttrAdmissionType,
	AttrStudyType,
	AttrAcademicYear,
	AttrPaymentStatus,
	AttrPhone,
	AttrEmergencyPhone,
	AttrFullNameAr,
	AttrFullNameEn,
	AttrFirstName,
	AttrLastName,
	AttrRegistrationStatus,
	AttrIsRegistered,
	AttrRegisteredAt,
}

// DeliveryOptional is the fixed probe list for SMS delivery records.
var DeliveryOptional = []Attribute{
	AttrDeliveryStatus,
	AttrProvider,
	AttrErrorCode,
}

// PendingRegistration lists the attributes that can mark a student as a new,
// not yet registered applicant.
var PendingRegistration = []Attribute{
	AttrRegistrationStatus,
	AttrIsRegistered,
	AttrRegisteredAt,
}

// defaultColumns maps attributes whose column name differs from the
// attribute name.
var defaultColumns = map[Attribute]string{
	AttrDeliveryStatus: "status",
}
